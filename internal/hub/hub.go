package hub

import (
	"log/slog"
	"sync"
)

// Hub is a bounded, in-memory broadcast buffer. Every published value is
// written once into a fixed-size ring shared by all subscriptions; each
// subscription only keeps its own read cursor into the global sequence.
//
// Publishing never blocks. When the ring is full the oldest value is
// overwritten, and a subscription whose cursor points at an overwritten
// slot observes a *LagError on its next receive and skips forward to the
// oldest retained value. A slow reader therefore never stalls the
// publisher or any other reader.
type Hub[T any] struct {
	mu sync.Mutex

	// slots is the ring. slots[seq%len(slots)] holds the value published
	// with sequence number seq, until it is overwritten cap publishes later.
	slots []slot[T]

	// next is the sequence number the next published value will get.
	next uint64

	// notify is closed and replaced on every publish, waking all waiters.
	notify chan struct{}

	subs   map[*Subscription[T]]struct{}
	closed bool

	logger *slog.Logger
}

type slot[T any] struct {
	seq uint64
	val T
}

// Entry is a value read from the hub together with its sequence number.
type Entry[T any] struct {
	Seq   uint64
	Value T
}

// Option configures a Hub.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for subscription lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a hub that retains up to capacity values.
//
// New panics if capacity is less than one.
func New[T any](capacity int, opts ...Option) *Hub[T] {
	if capacity < 1 {
		panic("hub: capacity must be at least 1")
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Hub[T]{
		slots:  make([]slot[T], capacity),
		notify: make(chan struct{}),
		subs:   make(map[*Subscription[T]]struct{}),
		logger: o.logger.With("component", "hub"),
	}
}

// Publish appends v to the ring and wakes every waiting subscription.
// It returns the number of subscriptions that can observe v.
//
// With no subscriptions the value is accepted and dropped: nobody could
// ever read it, since new subscriptions start at the tail.
// The only error is ErrClosed.
func (h *Hub[T]) Publish(v T) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrClosed
	}

	n := len(h.subs)
	if n == 0 {
		return 0, nil
	}

	h.slots[h.next%uint64(len(h.slots))] = slot[T]{seq: h.next, val: v}
	h.next++

	close(h.notify)
	h.notify = make(chan struct{})

	return n, nil
}

// Subscribe returns a subscription positioned at the current tail,
// so it only observes values published after this call.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Subscription[T]{
		hub:    h,
		cursor: h.next,
		done:   make(chan struct{}),
	}

	if h.closed {
		// Never registered; the first receive reports ErrClosed.
		return s
	}

	h.subs[s] = struct{}{}
	h.logger.Debug("Subscription registered", "total_subscribers", len(h.subs), "cursor", s.cursor)
	return s
}

// Close marks the hub closed and wakes every waiter. Subscriptions can
// still drain values retained in the ring before they see ErrClosed.
// Close is idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.notify)
	h.logger.Info("Hub closed", "total_subscribers", len(h.subs), "sequence", h.next)
}

// Subscribers returns the number of open subscriptions.
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Sequence returns the sequence number the next stored value will get,
// which is also the count of values stored so far.
func (h *Hub[T]) Sequence() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.next
}

// Capacity returns the number of slots in the ring.
func (h *Hub[T]) Capacity() int {
	return len(h.slots)
}

func (h *Hub[T]) remove(s *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	h.logger.Debug("Subscription released", "total_subscribers", len(h.subs))
}
