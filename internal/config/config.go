package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
)

// Config holds all configuration for the application.
type Config struct {
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":8000"`
	HubCapacity     int           `env:"HUB_CAPACITY" envDefault:"1024"`
	KeepAlive       time.Duration `env:"KEEPALIVE_INTERVAL" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// FormLimit uses echo's BodyLimit syntax, e.g. "32K" or "1M".
	FormLimit        string  `env:"FORM_LIMIT" envDefault:"32K"`
	PublishRateLimit float64 `env:"PUBLISH_RATE_LIMIT" envDefault:"20"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	Tracing TracingConfig `envPrefix:"TRACING_"`
}

// TracingConfig controls OpenTelemetry export of bus publishes.
type TracingConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"roomcast"`
	ZipkinURL   string `env:"ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// New loads configuration from a .env file, if present, and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.HubCapacity < 1 {
		errs = append(errs, fmt.Errorf("HUB_CAPACITY must be at least 1, got %d", c.HubCapacity))
	}
	if c.KeepAlive < 0 {
		errs = append(errs, fmt.Errorf("KEEPALIVE_INTERVAL must not be negative, got %s", c.KeepAlive))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must not be negative, got %s", c.ShutdownTimeout))
	}
	if _, err := bytes.Parse(c.FormLimit); err != nil || c.FormLimit == "" {
		errs = append(errs, fmt.Errorf("FORM_LIMIT must be a size like 32K or 1M, got %q", c.FormLimit))
	}
	if c.PublishRateLimit < 0 {
		errs = append(errs, fmt.Errorf("PUBLISH_RATE_LIMIT must not be negative, got %g", c.PublishRateLimit))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
