package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/roomcast/internal/middleware"
	"github.com/nfrund/roomcast/internal/module"
	"github.com/nfrund/roomcast/internal/modules/chat/events"
	"github.com/nfrund/roomcast/internal/pubsub"
	"github.com/nfrund/roomcast/internal/registry"
)

// StatsKey is where the module registers its *RoomStats.
const StatsKey registry.Key[*RoomStats] = "chat.stats"

// ChatModule implements the module.Module interface for the chat feature.
type ChatModule struct {
	module.BaseModule
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	stats      *RoomStats
	opts       Options
	logger     *slog.Logger
}

// DefaultFormLimit caps the POST /message body.
const DefaultFormLimit = "32K"

// Options tunes the chat routes.
type Options struct {
	KeepAlive time.Duration
	// FormLimit uses echo's BodyLimit syntax, e.g. "32K".
	FormLimit string
	// PublishRateLimit is requests per second per client IP; zero disables it.
	PublishRateLimit float64
}

// Dependencies holds all the services that the ChatModule requires to operate.
// This struct is used for constructor injection to make dependencies explicit.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Logger     *slog.Logger
	Options    Options
}

// New creates a new instance of the ChatModule, injecting its dependencies.
func New(deps Dependencies) *ChatModule {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := deps.Options
	if opts.FormLimit == "" {
		opts.FormLimit = DefaultFormLimit
	}
	return &ChatModule{
		publisher:  deps.Publisher,
		subscriber: deps.Subscriber,
		stats:      NewRoomStats(),
		opts:       opts,
		logger:     logger.With("module", "chat"),
	}
}

// Name returns the module name.
func (m *ChatModule) Name() string {
	return "chat"
}

// Register shares the room stats with the rest of the application.
func (m *ChatModule) Register(reg *registry.Registry) error {
	registry.Set(reg, StatsKey, m.stats)
	return nil
}

// Boot subscribes the room stats to the bus and sets up the routes.
func (m *ChatModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	h, ok := registry.Get(reg, registry.HubKey)
	if !ok {
		return fmt.Errorf("chat: %s not registered", registry.HubKey)
	}
	signal, ok := registry.Get(reg, registry.ShutdownKey)
	if !ok {
		return fmt.Errorf("chat: %s not registered", registry.ShutdownKey)
	}

	if err := pubsub.Subscribe(ctx, m.subscriber, events.Published, m.stats.Handle); err != nil {
		return fmt.Errorf("chat: subscribe stats: %w", err)
	}

	m.logger.Info("Booting ChatModule: Setting up routes...")
	handler := NewHandler(h, signal, m.publisher, m.stats, m.opts.KeepAlive)

	g.POST("/message", handler.MessagePost,
		echomw.BodyLimit(m.opts.FormLimit),
		middleware.RateLimiter(m.opts.PublishRateLimit),
	)
	g.GET("/events", handler.EventsGet)
	g.GET("/ws", handler.WSGet)
	g.GET("/stats", handler.StatsGet)

	return nil
}

// Shutdown is called on application termination. The stats subscription
// ends with the boot context.
func (m *ChatModule) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down ChatModule...")
	return nil
}
