package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxRoomLength is the maximum number of characters in a room name.
	MaxRoomLength = 30
	// MaxUsernameLength is the maximum number of characters in a username.
	MaxUsernameLength = 20
)

// Message is a single chat message as it flows from the publish endpoint
// through the hub to every subscriber. It is a plain value and is never
// mutated once built, so one copy is shared by all readers.
type Message struct {
	Room     string `json:"room" validate:"max=30"`
	Username string `json:"username" validate:"max=20"`
	Body     string `json:"message"`
}

// validate is safe for concurrent use and caches struct metadata,
// so a single instance is shared by the package.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewMessage normalizes room and username to NFC and checks their bounds.
// Lengths are counted in Unicode code points.
func NewMessage(room, username, body string) (Message, error) {
	msg := Message{
		Room:     norm.NFC.String(room),
		Username: norm.NFC.String(username),
		Body:     body,
	}
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Validate reports whether m satisfies the field bounds.
// A failure is always a *ValidationError.
func (m Message) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate message: %w", err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = describe(fe)
	}
	return verr
}

// ValidationError lists the fields of a message that failed validation,
// keyed by their wire name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return ErrInvalidMessage.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets callers match any validation failure with ErrInvalidMessage.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidMessage
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
