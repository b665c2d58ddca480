package app

import (
	"github.com/nfrund/roomcast/internal/module"
	"github.com/nfrund/roomcast/internal/modules/chat"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		chat.New(chatDeps(deps)),
	}
}
