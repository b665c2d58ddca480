package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ServerAddr)
	assert.Equal(t, 1024, cfg.HubCapacity)
	assert.Equal(t, 30*time.Second, cfg.KeepAlive)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "32K", cfg.FormLimit)
	assert.Equal(t, 20.0, cfg.PublishRateLimit)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "roomcast", cfg.Tracing.ServiceName)
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("HUB_CAPACITY", "16")
	t.Setenv("KEEPALIVE_INTERVAL", "5s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, 16, cfg.HubCapacity)
	assert.Equal(t, 5*time.Second, cfg.KeepAlive)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "http://zipkin:9411/api/v2/spans", cfg.Tracing.ZipkinURL)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero capacity", "HUB_CAPACITY", "0"},
		{"negative keepalive", "KEEPALIVE_INTERVAL", "-1s"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-5s"},
		{"negative rate limit", "PUBLISH_RATE_LIMIT", "-1"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"unparseable form limit", "FORM_LIMIT", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Setenv("HUB_CAPACITY", "lots")
	_, err := Parse()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
