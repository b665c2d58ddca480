package events

import (
	"time"

	"github.com/nfrund/roomcast/internal/pubsub"
)

// MessagePublished is emitted on the bus after a message was handed to the hub.
type MessagePublished struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	// Receivers is the number of open streams that could observe the message.
	Receivers   int       `json:"receivers"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Published is the typed bus event for MessagePublished.
var Published = pubsub.NewEvent[MessagePublished](
	"chat.message.published",
	"A message was accepted by POST /message and broadcast to open streams",
)
