package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/roomcast/internal/app"
	"github.com/nfrund/roomcast/internal/config"
	"github.com/nfrund/roomcast/internal/domain"
	"github.com/nfrund/roomcast/internal/hub"
	"github.com/nfrund/roomcast/internal/middleware"
	"github.com/nfrund/roomcast/internal/module"
	"github.com/nfrund/roomcast/internal/pubsub"
	"github.com/nfrund/roomcast/internal/registry"
	"github.com/nfrund/roomcast/internal/rendering"
	"github.com/nfrund/roomcast/internal/shutdown"
	"github.com/nfrund/roomcast/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	Hub      *hub.Hub[domain.Message]
	Signal   *shutdown.Coordinator
	Bus      *pubsub.WatermillBridge
	Registry *registry.Registry

	modules         []module.Module
	logger          *slog.Logger
	cancelBoot      context.CancelFunc
	tracingShutdown func(context.Context) error
}

// New wires the hub, bus, modules and routes. Nothing listens until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tracer, tracingShutdown, err := pubsub.SetupOTel(context.Background(), pubsub.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		ZipkinURL:   cfg.Tracing.ZipkinURL,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	bus := pubsub.NewWatermillBridge(pubsub.WithTracer(tracer), pubsub.WithLogger(logger))
	h := hub.New[domain.Message](cfg.HubCapacity, hub.WithLogger(logger))
	signal := shutdown.New()

	reg := registry.New()
	registry.Set(reg, registry.HubKey, h)
	registry.Set(reg, registry.ShutdownKey, signal)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rendering.New()
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestLog(logger))
	setupErrorHandling(e)

	// Serve static files from the embedded "web/static" directory.
	e.StaticFS("/static", web.Static())

	// Module background work (the stats subscription) stops with the streams.
	bootCtx, cancelBoot := signal.Context(context.Background())
	s := &Server{
		E:               e,
		Cfg:             cfg,
		Hub:             h,
		Signal:          signal,
		Bus:             bus,
		Registry:        reg,
		logger:          logger,
		cancelBoot:      cancelBoot,
		tracingShutdown: tracingShutdown,
	}

	s.modules = app.NewModules(app.Dependencies{
		Publisher:  bus,
		Subscriber: bus,
		Config:     cfg,
		Logger:     logger,
	})

	for _, m := range s.modules {
		if err := m.Register(reg); err != nil {
			s.release(context.Background())
			return nil, fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	for _, m := range s.modules {
		if err := m.Boot(bootCtx, e.Group(""), reg); err != nil {
			s.release(context.Background())
			return nil, fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		logger.Debug("Module booted", "module", m.Name())
	}

	s.RegisterRoutes()
	return s, nil
}
