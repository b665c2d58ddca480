// Package shutdown provides the process-wide signal that tells long-lived
// streams to stop.
package shutdown

import (
	"context"
	"sync"
)

// Coordinator is a one-shot broadcast signal. It starts unfired; Fire moves
// it to fired exactly once and every holder observes the change through
// Done. Only the owner of the server lifecycle should call Fire.
type Coordinator struct {
	once sync.Once
	done chan struct{}
}

// New returns an unfired coordinator.
func New() *Coordinator {
	return &Coordinator{done: make(chan struct{})}
}

// Fire signals shutdown. Calls after the first are no-ops.
func (c *Coordinator) Fire() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done is closed once Fire has been called.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Fired reports whether Fire has been called.
func (c *Coordinator) Fired() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Context returns a copy of parent that is also canceled when the
// coordinator fires.
func (c *Coordinator) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
