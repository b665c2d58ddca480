package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/roomcast/internal/domain"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidMessage = "invalid_message"
	CodeBadRequest     = "bad_request"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ValidationFailed writes a 422 for a message validation error. Any other
// error is returned unchanged for the global error handler.
func ValidationFailed(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Code:    CodeInvalidMessage,
		Message: verr.Error(),
		Fields:  verr.Fields,
	})
}

// BadRequest writes a 400 for a body that could not be decoded.
func BadRequest(c echo.Context, err error) error {
	msg := "malformed request body"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		// Bind reports oversized bodies and the like with their own status.
		if he.Code != http.StatusBadRequest {
			return he
		}
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    CodeBadRequest,
		Message: msg,
	})
}
