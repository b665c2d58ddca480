package main

import (
	"fmt"
	"os"

	"github.com/nfrund/roomcast/internal/config"
	"github.com/nfrund/roomcast/internal/logging"
	"github.com/nfrund/roomcast/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roomcast: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	s, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	if err := s.Run(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
