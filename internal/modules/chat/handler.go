package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/roomcast/internal/domain"
	"github.com/nfrund/roomcast/internal/handlers"
	"github.com/nfrund/roomcast/internal/hub"
	"github.com/nfrund/roomcast/internal/middleware"
	"github.com/nfrund/roomcast/internal/modules/chat/events"
	"github.com/nfrund/roomcast/internal/pubsub"
	"github.com/nfrund/roomcast/internal/stream"
)

// Handler holds dependencies for the chat module's HTTP handlers.
type Handler struct {
	hub       *hub.Hub[domain.Message]
	signal    stream.Signal
	publisher pubsub.Publisher
	stats     *RoomStats
	keepAlive time.Duration
}

// NewHandler creates a new chat handler with its dependencies.
func NewHandler(h *hub.Hub[domain.Message], signal stream.Signal, pub pubsub.Publisher, stats *RoomStats, keepAlive time.Duration) *Handler {
	return &Handler{
		hub:       h,
		signal:    signal,
		publisher: pub,
		stats:     stats,
		keepAlive: keepAlive,
	}
}

// MessagePost accepts one form-encoded message and broadcasts it.
// It answers 200 with no body whether or not anyone is listening.
func (h *Handler) MessagePost(c echo.Context) error {
	var req handlers.PublishRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadRequest(c, err)
	}

	msg, err := req.ToMessage()
	if err != nil {
		return handlers.ValidationFailed(c, err)
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	receivers, err := h.hub.Publish(msg)
	if errors.Is(err, hub.ErrClosed) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	}
	if err != nil {
		return err
	}
	logger.Debug("Message published", "room", msg.Room, "receivers", receivers)

	err = pubsub.Publish(ctx, h.publisher, events.Published, events.MessagePublished{
		Room:        msg.Room,
		Username:    msg.Username,
		Receivers:   receivers,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		// The message already went out; only the stats miss it.
		logger.Warn("Failed to emit publish event", "error", err)
	}

	return c.NoContent(http.StatusOK)
}

// EventsGet streams every published message as Server-Sent Events until
// the server shuts down or the client disconnects.
func (h *Handler) EventsGet(c echo.Context) error {
	sub := h.hub.Subscribe()
	logger := h.connLogger(c, "sse")

	em, err := stream.NewSSEEmitter[domain.Message](c.Response())
	if err != nil {
		sub.Close()
		logger.Debug("Client gone before stream start", "error", err)
		return nil
	}

	logger.Info("Stream opened")
	stream.Run[domain.Message](c.Request().Context(), sub, h.signal, em,
		stream.WithKeepAlive(h.keepAlive),
		stream.WithLogger(logger),
	)
	return nil
}

// WSGet is the WebSocket variant of EventsGet. Each message is one JSON
// text frame. Frames sent by the client are ignored.
func (h *Handler) WSGet(c echo.Context) error {
	logger := h.connLogger(c, "websocket")

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		// Streams are read-only and unauthenticated, so any origin may connect.
		InsecureSkipVerify: true,
	})
	if err != nil {
		// Accept has already written the error response.
		logger.Warn("Failed to upgrade WebSocket connection", "error", err)
		return nil
	}
	defer conn.CloseNow()

	sub := h.hub.Subscribe()
	ctx := conn.CloseRead(c.Request().Context())

	logger.Info("Stream opened")
	res := stream.Run[domain.Message](ctx, sub, h.signal, stream.NewWebSocketEmitter[domain.Message](conn),
		stream.WithKeepAlive(h.keepAlive),
		stream.WithLogger(logger),
	)

	switch res.Reason {
	case stream.ReasonShutdown:
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	case stream.ReasonClosed:
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	return nil
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Subscribers int               `json:"subscribers"`
	Sequence    uint64            `json:"sequence"`
	Capacity    int               `json:"capacity"`
	Rooms       map[string]uint64 `json:"rooms"`
}

// StatsGet reports hub occupancy and per-room message counts.
func (h *Handler) StatsGet(c echo.Context) error {
	return c.JSON(http.StatusOK, StatsResponse{
		Subscribers: h.hub.Subscribers(),
		Sequence:    h.hub.Sequence(),
		Capacity:    h.hub.Capacity(),
		Rooms:       h.stats.Counts(),
	})
}

func (h *Handler) connLogger(c echo.Context, transport string) *slog.Logger {
	return middleware.FromContext(c.Request().Context()).With(
		"conn_id", uuid.NewString(),
		"transport", transport,
		"remote_ip", c.RealIP(),
	)
}
