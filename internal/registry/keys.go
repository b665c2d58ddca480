package registry

import (
	"github.com/nfrund/roomcast/internal/domain"
	"github.com/nfrund/roomcast/internal/hub"
	"github.com/nfrund/roomcast/internal/shutdown"
)

// Keys for the core services the server registers before modules boot.
const (
	HubKey      Key[*hub.Hub[domain.Message]] = "core.hub"
	ShutdownKey Key[*shutdown.Coordinator]    = "core.shutdown"
)
