package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sse"

	"github.com/nfrund/roomcast/internal/hub"
)

// SSEEmitter writes values as Server-Sent Events. Each event carries the
// hub sequence number as its id and the JSON-encoded value as its data.
type SSEEmitter[T any] struct {
	w  io.Writer
	rc *http.ResponseController
}

// NewSSEEmitter writes the event-stream headers and an initial
// ": connected" comment, then returns an emitter writing to w.
func NewSSEEmitter[T any](w http.ResponseWriter) (*SSEEmitter[T], error) {
	h := w.Header()
	h.Set("Content-Type", sse.ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	s := &SSEEmitter[T]{w: w, rc: http.NewResponseController(w)}
	if err := s.comment("connected"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SSEEmitter[T]) Emit(_ context.Context, e hub.Entry[T]) error {
	err := sse.Encode(s.w, sse.Event{
		Id:   strconv.FormatUint(e.Seq, 10),
		Data: e.Value,
	})
	if err != nil {
		return fmt.Errorf("encode event %d: %w", e.Seq, err)
	}
	return s.flush()
}

func (s *SSEEmitter[T]) KeepAlive(context.Context) error {
	return s.comment("keepalive")
}

func (s *SSEEmitter[T]) comment(text string) error {
	if _, err := io.WriteString(s.w, ": "+text+"\n\n"); err != nil {
		return fmt.Errorf("write comment: %w", err)
	}
	return s.flush()
}

func (s *SSEEmitter[T]) flush() error {
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
