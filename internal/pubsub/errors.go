package pubsub

import "errors"

// ErrEmptyTopic is returned when publishing a message without a topic.
var ErrEmptyTopic = errors.New("pubsub: empty topic")
