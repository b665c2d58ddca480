package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	// ErrInvalidMessage is matched by every message validation failure.
	ErrInvalidMessage = errors.New("invalid message")
)
