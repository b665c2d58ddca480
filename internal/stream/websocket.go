package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/nfrund/roomcast/internal/hub"
)

const defaultWriteTimeout = 10 * time.Second

// WebSocketEmitter writes each value as a JSON text frame. Keep-alives are
// pings, so the connection must have a reader running, e.g. via CloseRead.
type WebSocketEmitter[T any] struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewWebSocketEmitter returns an emitter writing to conn.
func NewWebSocketEmitter[T any](conn *websocket.Conn) *WebSocketEmitter[T] {
	return &WebSocketEmitter[T]{conn: conn, writeTimeout: defaultWriteTimeout}
}

func (w *WebSocketEmitter[T]) Emit(ctx context.Context, e hub.Entry[T]) error {
	ctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, w.conn, e.Value); err != nil {
		return fmt.Errorf("write frame %d: %w", e.Seq, err)
	}
	return nil
}

func (w *WebSocketEmitter[T]) KeepAlive(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()

	if err := w.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
