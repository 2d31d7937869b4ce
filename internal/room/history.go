package room

import (
	"context"
	"sync"

	"github.com/omochice/roomtalk/pkg/protocol"
)

// DefaultHistoryLimit is the number of entries kept per room.
const DefaultHistoryLimit = 50

// HistoryStore keeps the most recent messages of each room.
type HistoryStore interface {
	// Append records e as the newest entry of room.
	Append(ctx context.Context, room string, e protocol.Entry) error
	// Recent returns the retained entries of room, oldest first.
	Recent(ctx context.Context, room string) ([]protocol.Entry, error)
}

// MemoryHistory is an in-process HistoryStore.
type MemoryHistory struct {
	mu    sync.Mutex
	limit int
	rooms map[string][]protocol.Entry
}

// NewMemoryHistory keeps up to limit entries per room. A non-positive limit
// selects DefaultHistoryLimit.
func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryHistory{limit: limit, rooms: make(map[string][]protocol.Entry)}
}

// Append implements HistoryStore.
func (h *MemoryHistory) Append(_ context.Context, room string, e protocol.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append(h.rooms[room], e)
	if over := len(entries) - h.limit; over > 0 {
		entries = append([]protocol.Entry(nil), entries[over:]...)
	}
	h.rooms[room] = entries
	return nil
}

// Recent implements HistoryStore.
func (h *MemoryHistory) Recent(_ context.Context, room string) ([]protocol.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]protocol.Entry(nil), h.rooms[room]...), nil
}
