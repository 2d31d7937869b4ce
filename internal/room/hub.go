// Package room implements the relay side of the room event contract: room
// membership, history replay, presence counts and fan-out.
package room

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/omochice/roomtalk/internal/transport"
	"github.com/omochice/roomtalk/pkg/protocol"
	"go.uber.org/zap"
)

// Member is one connected client.
type Member struct {
	ID       uuid.UUID
	Conn     transport.Conn
	Outgoing *transport.Queue

	room     string
	typingAs string
}

// NewMember creates a member with a fresh id and an outgoing queue of the
// given size.
func NewMember(conn transport.Conn, queueSize int) *Member {
	return &Member{
		ID:       uuid.New(),
		Conn:     conn,
		Outgoing: transport.NewQueue(conn, queueSize),
	}
}

// Room returns the room the member is in, or "". Only the goroutine serving
// m may call it while frames are being handled.
func (m *Member) Room() string {
	return m.room
}

// roomState is one room's membership. mu serializes history access and
// message fan-out within the room, so a slow history store only holds up
// that room.
type roomState struct {
	mu      sync.Mutex
	members map[*Member]bool
	refs    int
}

// Hub manages connected members and their rooms. All transports share one Hub.
//
// h.mu guards membership and is never held across history calls. Lock order
// is roomState.mu before h.mu.
type Hub struct {
	mu      sync.Mutex
	members map[*Member]bool
	rooms   map[string]*roomState
	history HistoryStore
	logger  *zap.Logger
}

// NewHub creates a Hub. A nil history keeps an in-memory history.
func NewHub(history HistoryStore, logger *zap.Logger) *Hub {
	if history == nil {
		history = NewMemoryHistory(DefaultHistoryLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		members: make(map[*Member]bool),
		rooms:   make(map[string]*roomState),
		history: history,
		logger:  logger,
	}
}

// Register adds a member to the hub. It is in no room until it sends join-room.
func (h *Hub) Register(m *Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.members[m] = true
}

// Unregister removes a member, clears its typing indicator for the rest of
// the room and tells the room the new head count.
func (h *Hub) Unregister(m *Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.members[m] {
		return
	}
	delete(h.members, m)
	h.leave(m)
	m.Outgoing.Close()
}

// ClientCount returns number of connected members.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members)
}

// RoomCount returns the number of members in room.
func (h *Hub) RoomCount(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r := h.rooms[room]; r != nil {
		return len(r.members)
	}
	return 0
}

// Serve reads frames from m until the connection fails or ctx ends, then
// unregisters m. Undecodable frames are logged and skipped.
func (h *Hub) Serve(ctx context.Context, m *Member) error {
	defer h.Unregister(m)

	for {
		data, err := m.Conn.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		var f protocol.Frame
		if err := f.Decode(data); err != nil {
			h.logger.Warn("failed to decode frame", zap.Stringer("member", m.ID), zap.Error(err))
			continue
		}
		h.HandleFrame(ctx, m, f)
	}
}

// HandleFrame applies one client -> server frame from m. Frames from one
// member must be handled one at a time.
func (h *Hub) HandleFrame(ctx context.Context, m *Member, f protocol.Frame) {
	switch f.Event {
	case protocol.EventJoinRoom:
		h.join(ctx, m, strings.TrimSpace(f.Room))
	case protocol.EventSendMessage:
		h.message(ctx, m, f)
	case protocol.EventTyping:
		h.mu.Lock()
		if m.room != "" {
			m.typingAs = f.DisplayName
		}
		h.relay(m, protocol.Frame{Event: protocol.EventUserTyping, DisplayName: f.DisplayName})
		h.mu.Unlock()
	case protocol.EventStopTyping:
		h.mu.Lock()
		m.typingAs = ""
		h.relay(m, protocol.Frame{Event: protocol.EventUserStopTyping, DisplayName: f.DisplayName})
		h.mu.Unlock()
	default:
		h.logger.Debug("ignoring frame", zap.Stringer("member", m.ID), zap.Stringer("event", f.Event))
	}
}

// acquire locks the named room, creating it if needed. The room is not
// pruned until the matching release.
func (h *Hub) acquire(name string) *roomState {
	h.mu.Lock()
	r := h.rooms[name]
	if r == nil {
		r = &roomState{members: make(map[*Member]bool)}
		h.rooms[name] = r
	}
	r.refs++
	h.mu.Unlock()

	r.mu.Lock()
	return r
}

func (h *Hub) release(name string, r *roomState) {
	r.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	r.refs--
	h.prune(name, r)
}

// prune drops an unused empty room. Caller must hold h.mu.
func (h *Hub) prune(name string, r *roomState) {
	if r.refs == 0 && len(r.members) == 0 && h.rooms[name] == r {
		delete(h.rooms, name)
	}
}

// join moves m into room and replies with the room's history.
func (h *Hub) join(ctx context.Context, m *Member, room string) {
	if room == "" {
		return
	}
	r := h.acquire(room)
	defer h.release(room, r)

	h.mu.Lock()
	if !h.members[m] {
		h.mu.Unlock()
		return
	}
	if m.room != room {
		h.leave(m)
		r.members[m] = true
		m.room = room
		h.logger.Info("member joined room", zap.Stringer("member", m.ID), zap.String("room", room))
	}
	h.mu.Unlock()

	entries, err := h.history.Recent(ctx, room)
	if err != nil {
		h.logger.Warn("failed to load history", zap.String("room", room), zap.Error(err))
		entries = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if m.room != room {
		return
	}
	h.send(m, protocol.Frame{Event: protocol.EventChatHistory, Room: room, History: entries})
	h.broadcastCount(room)
}

// leave removes m from its room. Caller must hold h.mu.
func (h *Hub) leave(m *Member) {
	if m.room == "" {
		return
	}
	if m.typingAs != "" {
		h.relay(m, protocol.Frame{Event: protocol.EventUserStopTyping, DisplayName: m.typingAs})
		m.typingAs = ""
	}
	old := m.room
	r := h.rooms[old]
	m.room = ""
	if r == nil {
		return
	}
	delete(r.members, m)
	h.prune(old, r)
	if len(r.members) > 0 {
		h.broadcastCount(old)
	}
}

// message stores and fans out a chat message, echoing it to the sender.
func (h *Hub) message(ctx context.Context, m *Member, f protocol.Frame) {
	h.mu.Lock()
	room := m.room
	h.mu.Unlock()
	if room == "" || strings.TrimSpace(f.Text) == "" {
		return
	}

	r := h.acquire(room)
	defer h.release(room, r)

	entry := f.Entry()
	if err := h.history.Append(ctx, room, entry); err != nil {
		h.logger.Warn("failed to store message", zap.String("room", room), zap.Error(err))
	}
	out := protocol.Frame{Event: protocol.EventMessage, Room: room}
	out.SetEntry(entry)

	h.mu.Lock()
	defer h.mu.Unlock()
	for member := range r.members {
		h.send(member, out)
	}
}

// relay sends f to every member of m's room except m. Caller must hold h.mu.
func (h *Hub) relay(m *Member, f protocol.Frame) {
	r := h.rooms[m.room]
	if m.room == "" || r == nil {
		return
	}
	f.Room = m.room
	for member := range r.members {
		if member != m {
			h.send(member, f)
		}
	}
}

// broadcastCount sends the head count of room to its members. Caller must hold h.mu.
func (h *Hub) broadcastCount(room string) {
	r := h.rooms[room]
	if r == nil {
		return
	}
	f := protocol.Frame{Event: protocol.EventUserCount, Room: room, Count: len(r.members)}
	for member := range r.members {
		h.send(member, f)
	}
}

func (h *Hub) send(m *Member, f protocol.Frame) {
	if err := m.Outgoing.WriteFrame(f); err != nil {
		h.logger.Warn("dropping frame", zap.Stringer("member", m.ID), zap.Stringer("event", f.Event), zap.Error(err))
	}
}
