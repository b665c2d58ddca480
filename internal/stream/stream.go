// Package stream pumps values from a hub subscription to one connected
// client until the server shuts down, the hub closes, or the client goes
// away.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nfrund/roomcast/internal/hub"
)

// DefaultKeepAlive is how often an idle stream writes a keep-alive.
const DefaultKeepAlive = 30 * time.Second

// Source is the read side of a hub subscription.
type Source[T any] interface {
	TryRecv() (hub.Entry[T], error)
	Ready() <-chan struct{}
	Close()
}

// Signal is observed to stop the stream. *shutdown.Coordinator implements it.
type Signal interface {
	Done() <-chan struct{}
}

// Emitter writes to one client transport.
type Emitter[T any] interface {
	// Emit delivers one value. An error ends the stream.
	Emit(ctx context.Context, e hub.Entry[T]) error
	// KeepAlive writes something that is not an event, to keep idle
	// connections and intermediaries from timing out.
	KeepAlive(ctx context.Context) error
}

// Reason tells why a stream terminated.
type Reason int

const (
	// ReasonShutdown means the shutdown signal fired.
	ReasonShutdown Reason = iota + 1
	// ReasonClosed means the hub was closed and fully drained.
	ReasonClosed
	// ReasonDisconnected means the client went away or a write failed.
	ReasonDisconnected
)

func (r Reason) String() string {
	switch r {
	case ReasonShutdown:
		return "shutdown"
	case ReasonClosed:
		return "closed"
	case ReasonDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Result summarizes a finished stream.
type Result struct {
	Reason    Reason
	Delivered uint64
	// Skipped counts values lost to lag.
	Skipped uint64
	// Err is the write or receive error that ended the stream, if any.
	Err error
}

// Option configures Run.
type Option func(*options)

type options struct {
	keepAlive time.Duration
	logger    *slog.Logger
}

// WithKeepAlive sets the keep-alive interval. Zero disables keep-alives.
func WithKeepAlive(d time.Duration) Option {
	return func(o *options) {
		o.keepAlive = d
	}
}

// WithLogger sets the logger for stream events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run delivers values from src to em until one of these happens:
//   - signal fires (ReasonShutdown), even when a value is already pending
//   - the hub is closed and drained (ReasonClosed)
//   - ctx ends or em fails (ReasonDisconnected)
//
// Lag is absorbed silently: the skipped values are counted and delivery
// resumes from the oldest retained value. src is always closed on return.
func Run[T any](ctx context.Context, src Source[T], signal Signal, em Emitter[T], opts ...Option) (res Result) {
	o := options{
		keepAlive: DefaultKeepAlive,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	defer src.Close()
	defer func() {
		logger.Info("Stream terminated",
			"reason", res.Reason.String(),
			"delivered", res.Delivered,
			"skipped", res.Skipped,
		)
	}()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	if o.keepAlive > 0 {
		ticker = time.NewTicker(o.keepAlive)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if fired(signal) {
			res.Reason = ReasonShutdown
			return res
		}

		e, err := src.TryRecv()
		var lag *hub.LagError
		switch {
		case err == nil:
			if fired(signal) {
				res.Reason = ReasonShutdown
				return res
			}
			if err := em.Emit(ctx, e); err != nil {
				logger.Debug("Emit failed", "error", err, "seq", e.Seq)
				res.Reason = ReasonDisconnected
				res.Err = err
				return res
			}
			res.Delivered++
			if ticker != nil {
				ticker.Reset(o.keepAlive)
			}
			continue

		case errors.As(err, &lag):
			res.Skipped += lag.Skipped
			logger.Debug("Subscriber lagged", "skipped", lag.Skipped)
			continue

		case errors.Is(err, hub.ErrClosed):
			res.Reason = ReasonClosed
			return res

		case errors.Is(err, hub.ErrEmpty):
			// Wait below.

		default:
			res.Reason = ReasonClosed
			res.Err = err
			return res
		}

		select {
		case <-signal.Done():
			res.Reason = ReasonShutdown
			return res
		case <-ctx.Done():
			res.Reason = ReasonDisconnected
			return res
		case <-src.Ready():
		case <-tick:
			if err := em.KeepAlive(ctx); err != nil {
				logger.Debug("Keep-alive failed", "error", err)
				res.Reason = ReasonDisconnected
				res.Err = err
				return res
			}
		}
	}
}

func fired(s Signal) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}
