package client

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// FormatLine renders an event as "[room] username: message".
func FormatLine(ev Event) string {
	name := ev.Message.Username
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("[%s] %s: %s", ev.Message.Room, name, ev.Message.Body)
}

// WriteStatsTable prints stats as an aligned table, rooms sorted by name.
func WriteStatsTable(w io.Writer, s *Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "SUBSCRIBERS\t%d\n", s.Subscribers)
	fmt.Fprintf(tw, "SEQUENCE\t%d\n", s.Sequence)
	fmt.Fprintf(tw, "CAPACITY\t%d\n", s.Capacity)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ROOM\tMESSAGES")
	fmt.Fprintln(tw, "----\t--------")
	if len(s.Rooms) == 0 {
		fmt.Fprintln(tw, "No rooms yet")
	}

	rooms := make([]string, 0, len(s.Rooms))
	for r := range s.Rooms {
		rooms = append(rooms, r)
	}
	sort.Strings(rooms)
	for _, r := range rooms {
		fmt.Fprintf(tw, "%s\t%d\n", r, s.Rooms[r])
	}

	return tw.Flush()
}
