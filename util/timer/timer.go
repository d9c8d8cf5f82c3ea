package timer

import (
	"sync"
	"time"
)

// SetInterval calls f every duration until the returned stop func is
// called. stop waits for a running f to return and is safe to call twice.
func SetInterval(duration time.Duration, f func()) (stop func()) {
	t := time.NewTicker(duration)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-t.C:
				f()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
			<-exited
		})
	}
}
