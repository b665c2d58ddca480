package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/roomcast/internal/handlers"
	"github.com/nfrund/roomcast/internal/middleware"
)

// setupErrorHandling installs an error handler that leaves echo.HTTPErrors
// to echo's default handling and logs anything else with a stack trace
// before answering 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)

		if err := c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{
			Code:    "internal_error",
			Message: http.StatusText(http.StatusInternalServerError),
		}); err != nil {
			c.Logger().Error(err)
		}
	}
}
