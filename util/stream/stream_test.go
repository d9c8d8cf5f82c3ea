package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamSlice(t *testing.T) {
	s := New[int](1)
	go func() {
		defer s.Close()
		for i := 0; i < 5; i++ {
			s.Push(i)
		}
	}()

	require.Equal(t, []int{0, 1, 2, 3, 4}, s.Slice())
}

func TestStreamStop(t *testing.T) {
	s := New[int](0)
	pushed := make(chan int)
	go func() {
		defer s.Close()
		n := 0
		for i := 0; i < 1000; i++ {
			if !s.Push(i) {
				break
			}
			n++
		}
		pushed <- n
	}()

	v, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, 0, v)
	s.Stop()
	s.Stop()

	require.Less(t, <-pushed, 1000)
}
