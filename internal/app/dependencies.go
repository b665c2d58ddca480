package app

import (
	"log/slog"

	"github.com/nfrund/roomcast/internal/config"
	"github.com/nfrund/roomcast/internal/modules/chat"
	"github.com/nfrund/roomcast/internal/pubsub"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the server to wire up the modules.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Config     *config.Config
	Logger     *slog.Logger
}

// chatDeps creates the dependency struct for the chat module.
func chatDeps(deps Dependencies) chat.Dependencies {
	return chat.Dependencies{
		Publisher:  deps.Publisher,
		Subscriber: deps.Subscriber,
		Logger:     deps.Logger,
		Options: chat.Options{
			KeepAlive:        deps.Config.KeepAlive,
			FormLimit:        deps.Config.FormLimit,
			PublishRateLimit: deps.Config.PublishRateLimit,
		},
	}
}
