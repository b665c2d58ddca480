package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/roomcast/internal/config"
	"github.com/nfrund/roomcast/internal/domain"
	"github.com/nfrund/roomcast/internal/hub"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:      "127.0.0.1:0",
		HubCapacity:     8,
		KeepAlive:       time.Minute,
		ShutdownTimeout: 5 * time.Second,
		FormLimit:       "32K",
		LogFormat:       "text",
		LogLevel:        "debug",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig(), slogt.New(t))
	require.NoError(t, err)
	return s
}

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	// --- Setup ---
	e := echo.New()

	// 1. Capture log output
	// We temporarily redirect slog's output to a buffer to inspect it.
	var logBuffer bytes.Buffer
	handler := slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{
		AddSource: true,
	})
	logger := slog.New(handler)
	// Store the original default logger and defer its restoration
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	// 2. Set up the error handler we want to test
	setupErrorHandling(e)

	// 3. Define a route that will always produce an unhandled error
	e.GET("/test-unhandled-error", func(c echo.Context) error {
		return errors.New("a deliberate unhandled error occurred")
	})

	// --- Act ---
	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// --- Assert ---
	require.Equal(t, http.StatusInternalServerError, rec.Code, "Expected a 500 Internal Server Error response")
	assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)

	logOutput := logBuffer.String()

	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)", "Log message should indicate an unhandled error")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"", "Log should contain the original error message")
	assert.Contains(t, logOutput, "stack_trace=", "Log must contain the stack_trace field")

	// A real stack trace contains the runtime/debug frame and this test file.
	assert.Contains(t, logOutput, "runtime/debug/stack.go", "Stack trace should originate from the debug package")
	assert.Contains(t, logOutput, "internal/server/server_test.go", "Stack trace should point back to this test file")
}

func TestHTTPErrorHandler_HTTPErrorsAreNotLogged(t *testing.T) {
	e := echo.New()
	var logBuffer bytes.Buffer
	originalLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logBuffer, nil)))
	defer slog.SetDefault(originalLogger)

	setupErrorHandling(e)
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotContains(t, logBuffer.String(), "stack_trace")
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)
	defer s.release(context.Background())

	tests := []struct {
		path        string
		wantStatus  int
		wantContent string
	}{
		{"/health", http.StatusOK, "OK"},
		{"/", http.StatusOK, `hx-post="/message"`},
		{"/static/app.js", http.StatusOK, "EventSource"},
		{"/static/style.css", http.StatusOK, "#messages"},
		{"/stats", http.StatusOK, `"capacity":8`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContent)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}
}

func TestServer_HealthReportsDraining(t *testing.T) {
	s := newTestServer(t)
	defer s.release(context.Background())

	s.Signal.Fire()

	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting down", rec.Body.String())
}

func TestServer_GracefulShutdownEndsStreams(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.E.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)
	base := "http://" + s.E.ListenerAddr().String()

	resp, err := http.Get(base + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	post, err := http.PostForm(base+"/message", url.Values{"room": {"lobby"}, "username": {"alice"}, "message": {"hi"}})
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			assert.Contains(t, line, `"username":"alice"`)
			break
		}
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// The stream was closed by the server, not cut off.
	_, err = io.ReadAll(r)
	require.NoError(t, err)

	assert.True(t, s.Signal.Fired())
	_, err = s.Hub.Publish(domain.Message{})
	assert.ErrorIs(t, err, hub.ErrClosed)
}
