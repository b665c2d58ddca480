package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/roomcast/internal/handlers"
	"github.com/nfrund/roomcast/internal/modules/chat"
	"github.com/nfrund/roomcast/internal/registry"
)

// RegisterRoutes sets up the routes not owned by a module.
func (s *Server) RegisterRoutes() {
	homeHandler := handlers.NewHomeHandler(registry.MustGet(s.Registry, chat.StatsKey))

	s.E.GET("/", homeHandler.HomeGet)

	// Reports 503 while draining so load balancers stop routing here.
	s.E.GET("/health", func(c echo.Context) error {
		if s.Signal.Fired() {
			return c.String(http.StatusServiceUnavailable, "shutting down")
		}
		return c.String(http.StatusOK, "OK")
	})
}
