package client

import (
	"bufio"
	"io"
	"strings"

	"github.com/nfrund/roomcast/internal/domain"
)

// RawEvent is one server-sent event before its data is decoded.
type RawEvent struct {
	ID    string
	Event string
	Data  string
}

// Event is a decoded chat message with the stream id it arrived under.
type Event struct {
	ID      string         `json:"id"`
	Message domain.Message `json:"message"`
}

// ReadEvents parses a text/event-stream body and calls fn for every event
// that carries data. Comment lines and unknown fields are ignored.
func ReadEvents(r io.Reader, fn func(RawEvent) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)

	var (
		ev   RawEvent
		data []string
	)
	for sc.Scan() {
		line := sc.Text()

		if line == "" {
			if len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if err := fn(ev); err != nil {
					return err
				}
			}
			ev, data = RawEvent{}, data[:0]
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			ev.ID = value
		case "event":
			ev.Event = value
		case "data":
			data = append(data, value)
		}
	}
	return sc.Err()
}
