// Package reloader keeps a Reader in sync with a database file on disk.
package reloader

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go-mmdb/pkg/reader"
	"go-mmdb/util/logger"
	"go-mmdb/util/timer"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reloader polls path and swaps in a fresh Reader when the file changes.
// Lookups through Current never block on a reload.
type Reloader struct {
	path string
	opts *reader.Options
	log  *logrus.Entry

	current atomic.Pointer[reader.Reader]

	mu      sync.Mutex // serializes reloads
	modTime time.Time
	size    int64

	stop func()
}

// New loads path once and, for a positive interval, starts polling it.
func New(path string, interval time.Duration, opts *reader.Options) (*Reloader, error) {
	rl := &Reloader{
		path: path,
		opts: opts,
		log:  logger.For("reloader").WithField("path", path),
	}
	if _, err := rl.Reload(); err != nil {
		return nil, err
	}
	if interval > 0 {
		rl.stop = timer.SetInterval(interval, rl.poll)
	}
	return rl, nil
}

func (rl *Reloader) Current() *reader.Reader {
	return rl.current.Load()
}

// Reload reopens the file if it changed since the last successful load
// and reports whether a new Reader was installed. On error the current
// Reader stays in place.
func (rl *Reloader) Reload() (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, err := os.Stat(rl.path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat '%s'", rl.path)
	}
	if rl.current.Load() != nil && info.ModTime().Equal(rl.modTime) && info.Size() == rl.size {
		return false, nil
	}

	// every Reader gets its own cache
	var opts *reader.Options
	if rl.opts != nil {
		o := *rl.opts
		opts = &o
	}
	r, err := reader.Open(rl.path, opts)
	if err != nil {
		return false, err
	}

	rl.current.Store(r)
	rl.modTime = info.ModTime()
	rl.size = info.Size()
	rl.log.WithField("type", r.DatabaseType()).Info("database swapped")
	return true, nil
}

func (rl *Reloader) poll() {
	if _, err := rl.Reload(); err != nil {
		rl.log.WithError(err).Error("reload failed, keeping current database")
	}
}

// Close stops polling. The current Reader stays usable.
func (rl *Reloader) Close() error {
	if rl.stop != nil {
		rl.stop()
	}
	return nil
}
