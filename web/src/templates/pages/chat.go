package pages

import (
	"strconv"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/roomcast/internal/domain"
)

// DefaultRoom is selected when the page first loads.
const DefaultRoom = "lobby"

// ChatContent is the chat page body: a room list, the message log, and
// the form that posts to /message. Messages arrive through app.js, which
// follows /events and files each record under its room.
func ChatContent(rooms []string) cmp.Node {
	if len(rooms) == 0 {
		rooms = []string{DefaultRoom}
	}

	return g.Main(
		g.ID("chat"),
		g.Nav(
			g.ID("sidebar"),
			g.Div(g.ID("status"), g.Class("pending"), cmp.Text("connecting")),
			g.Ul(
				g.ID("rooms"),
				cmp.Map(rooms, roomItem),
			),
			g.Form(
				g.ID("new-room"),
				g.Input(
					g.Type("text"), g.Name("name"), g.Placeholder("new room..."),
					g.MaxLength(strconv.Itoa(domain.MaxRoomLength)),
				),
				g.Button(g.Type("submit"), cmp.Text("+")),
			),
		),
		g.Section(
			g.ID("content"),
			g.Div(g.ID("messages")),
			g.Form(
				g.ID("new-message"),
				hx.Post("/message"),
				hx.Swap("none"),
				g.Input(g.Type("hidden"), g.Name("room"), g.ID("room-field"), g.Value(rooms[0])),
				g.Input(
					g.Type("text"), g.Name("username"), g.ID("username"),
					g.Placeholder("guest"),
					g.MaxLength(strconv.Itoa(domain.MaxUsernameLength)),
				),
				g.Input(
					g.Type("text"), g.Name("message"), g.ID("message"),
					g.Placeholder("Send a message..."), g.AutoFocus(),
				),
				g.Button(g.Type("submit"), cmp.Text("Send")),
			),
		),
	)
}

func roomItem(name string) cmp.Node {
	return g.Li(
		g.Button(
			g.Class("room"),
			g.DataAttr("room", name),
			cmp.Text(name),
		),
	)
}
