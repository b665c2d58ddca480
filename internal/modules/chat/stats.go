package chat

import (
	"context"
	"sync"

	"github.com/nfrund/roomcast/internal/modules/chat/events"
)

// RoomStats counts published messages per room. It is fed from the bus,
// so counts trail the hub by however long delivery takes.
type RoomStats struct {
	mu     sync.RWMutex
	counts map[string]uint64
	// order holds rooms in the order they were first seen.
	order []string
}

// NewRoomStats creates empty stats.
func NewRoomStats() *RoomStats {
	return &RoomStats{counts: make(map[string]uint64)}
}

// Handle records one published message.
func (s *RoomStats) Handle(_ context.Context, ev events.MessagePublished) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counts[ev.Room]; !ok {
		s.order = append(s.order, ev.Room)
	}
	s.counts[ev.Room]++
	return nil
}

// Rooms returns the rooms seen so far, oldest first.
func (s *RoomStats) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Counts returns a copy of the per-room message counts.
func (s *RoomStats) Counts() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]uint64, len(s.counts))
	for room, n := range s.counts {
		out[room] = n
	}
	return out
}
