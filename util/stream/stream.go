package stream

import "sync"

func New[T any](size int) Stream[T] {
	return &stream[T]{
		ch:   make(chan T, size),
		done: make(chan struct{}),
	}
}

type Reader[T any] interface {
	Pop() (T, bool)
	Slice() []T

	// Stop tells the writer that no more values will be read.
	Stop()
}

type Writer[T any] interface {
	// Push blocks until the value is buffered and reports false once the
	// reader has stopped.
	Push(T) bool
	Close()
}

type Stream[T any] interface {
	Reader[T]
	Writer[T]
}

type stream[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
}

func (s *stream[T]) Pop() (T, bool) {
	val, ok := <-s.ch
	return val, ok
}

func (s *stream[T]) Slice() []T {
	sl := []T{}
	for itm := range s.ch {
		sl = append(sl, itm)
	}
	return sl
}

func (s *stream[T]) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *stream[T]) Push(val T) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.ch <- val:
		return true
	case <-s.done:
		return false
	}
}

func (s *stream[T]) Close() {
	close(s.ch)
}
