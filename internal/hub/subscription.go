package hub

import (
	"context"
	"errors"
	"sync"
)

// closedChan is returned by Ready when a receive would not block.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Subscription is one reader's cursor into a Hub.
//
// A Subscription is meant to be used by a single goroutine, except for
// Close, which may be called from anywhere.
type Subscription[T any] struct {
	hub *Hub[T]

	// cursor is the sequence number of the next value to read.
	// Guarded by hub.mu.
	cursor uint64
	closed bool

	done      chan struct{}
	closeOnce sync.Once
}

// TryRecv returns the next value without waiting.
//
// It returns ErrEmpty when nothing is pending, a *LagError when values
// were overwritten before being read, and ErrClosed when the hub or the
// subscription is closed and every retained value has been read.
func (s *Subscription[T]) TryRecv() (Entry[T], error) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.closed {
		return Entry[T]{}, ErrClosed
	}

	if s.cursor == h.next {
		if h.closed {
			return Entry[T]{}, ErrClosed
		}
		return Entry[T]{}, ErrEmpty
	}

	capacity := uint64(len(h.slots))
	sl := h.slots[s.cursor%capacity]
	if sl.seq != s.cursor {
		// Overwritten. h.next > capacity here, since slots are only
		// reused after a full lap.
		oldest := h.next - capacity
		skipped := oldest - s.cursor
		s.cursor = oldest
		return Entry[T]{}, &LagError{Skipped: skipped}
	}

	s.cursor++
	return Entry[T]{Seq: sl.seq, Value: sl.val}, nil
}

// Ready returns a channel that is closed once TryRecv would return
// something other than ErrEmpty. The channel must be fetched again after
// every receive.
//
// Any publish that happens after Ready returns closes the returned
// channel, so a select on it never misses a wake-up.
func (s *Subscription[T]) Ready() <-chan struct{} {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.closed || h.closed || s.cursor != h.next {
		return closedChan
	}
	return h.notify
}

// Done is closed when the subscription is closed.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Recv waits for the next value. Besides the TryRecv errors it returns
// ctx.Err() when ctx ends first.
func (s *Subscription[T]) Recv(ctx context.Context) (Entry[T], error) {
	for {
		e, err := s.TryRecv()
		if !errors.Is(err, ErrEmpty) {
			return e, err
		}

		select {
		case <-ctx.Done():
			return Entry[T]{}, ctx.Err()
		case <-s.done:
		case <-s.Ready():
		}
	}
}

// Close releases the subscription so the hub stops counting it.
// Close is idempotent.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.hub.mu.Lock()
		s.closed = true
		s.hub.mu.Unlock()

		s.hub.remove(s)
		close(s.done)
	})
}
