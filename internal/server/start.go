package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Start runs the HTTP server until ctx ends, then shuts down gracefully.
// It returns early with an error if the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.Cfg.ServerAddr)
		if err := s.E.Start(s.Cfg.ServerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown requested")
	case err := <-errCh:
		s.release(context.Background())
		return fmt.Errorf("shutting down the server: %w", err)
	}

	return s.Shutdown()
}

// Shutdown stops the server in order: open streams are told to stop, the
// listener closes and in-flight requests drain, then modules, the hub and
// the bus are released. Everything must finish within SHUTDOWN_TIMEOUT.
func (s *Server) Shutdown() error {
	// Streams only end when told to, so fire before waiting on them.
	s.Signal.Fire()

	ctx, cancel := context.WithTimeout(context.Background(), s.Cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.release(ctx); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("Server stopped")
	return errors.Join(errs...)
}

// release frees everything New acquired besides the listener.
func (s *Server) release(ctx context.Context) error {
	var errs []error
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown module %s: %w", m.Name(), err))
		}
	}
	s.cancelBoot()
	s.Hub.Close()
	if err := s.Bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	if err := s.tracingShutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	return errors.Join(errs...)
}
