package handlers

import (
	"github.com/nfrund/roomcast/internal/domain"
)

// PublishRequest is the form accepted by POST /message.
type PublishRequest struct {
	Room     string `form:"room"`
	Username string `form:"username"`
	Message  string `form:"message"`
}

// ToMessage normalizes and validates the request into a domain.Message.
func (r PublishRequest) ToMessage() (domain.Message, error) {
	return domain.NewMessage(r.Room, r.Username, r.Message)
}
