package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/roomcast/web/src/templates/layouts"
	"github.com/nfrund/roomcast/web/src/templates/pages"
)

// RoomLister reports rooms that have seen traffic.
type RoomLister interface {
	Rooms() []string
}

// HomeHandler handles requests for the home page.
type HomeHandler struct {
	rooms RoomLister
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(rooms RoomLister) *HomeHandler {
	return &HomeHandler{rooms: rooms}
}

// HomeGet renders the chat page, pre-listing known rooms.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	rooms := []string{pages.DefaultRoom}
	for _, r := range h.rooms.Rooms() {
		if r != pages.DefaultRoom {
			rooms = append(rooms, r)
		}
	}
	return c.Render(http.StatusOK, "", layouts.Base("Chat", pages.ChatContent(rooms)))
}
