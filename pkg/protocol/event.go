// Package protocol defines the room chat event contract and its wire codec.
package protocol

// Event identifies a frame on the room-scoped event channel.
type Event int

const (
	EventUnknown Event = iota
	EventJoinRoom
	EventChatHistory
	EventUserCount
	EventSendMessage
	EventMessage
	EventTyping
	EventStopTyping
	EventUserTyping
	EventUserStopTyping
)

var eventNames = map[Event]string{
	EventJoinRoom:       "join-room",
	EventChatHistory:    "chat-history",
	EventUserCount:      "user-count",
	EventSendMessage:    "send-message",
	EventMessage:        "message",
	EventTyping:         "typing",
	EventStopTyping:     "stop-typing",
	EventUserTyping:     "user-typing",
	EventUserStopTyping: "user-stop-typing",
}

var eventsByName = func() map[string]Event {
	m := make(map[string]Event, len(eventNames))
	for ev, name := range eventNames {
		m[name] = ev
	}
	return m
}()

// String returns the wire name of the event.
func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEvent maps a wire name back to its Event.
// Unknown names map to EventUnknown rather than an error so that a newer
// server cannot break an older client.
func ParseEvent(name string) Event {
	if ev, ok := eventsByName[name]; ok {
		return ev
	}
	return EventUnknown
}

// FromServer reports whether the event travels server -> client.
func (e Event) FromServer() bool {
	switch e {
	case EventChatHistory, EventUserCount, EventMessage, EventUserTyping, EventUserStopTyping:
		return true
	default:
		return false
	}
}

// FromClient reports whether the event travels client -> server.
func (e Event) FromClient() bool {
	switch e {
	case EventJoinRoom, EventSendMessage, EventTyping, EventStopTyping:
		return true
	default:
		return false
	}
}
