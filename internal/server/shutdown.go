package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Run starts the server and blocks until an interrupt or terminate signal
// has been handled.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Start(ctx)
}
