// Package session holds the state of one user's live room session and the
// controller that applies local actions and inbound events to it.
package session

import (
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/typing"
)

// DefaultRoom is the room joined when none is configured.
const DefaultRoom = "general"

// Session is the mutable per-connection state. It lives only as long as the
// process; counters are never persisted.
type Session struct {
	RoomID       string
	MessageCount int
	OnlineCount  int
	Typing       typing.State
	Connected    bool
}

// Message is a chat message as delivered by the transport.
type Message struct {
	Author      identity.Identity
	Text        string
	SentAtLabel string
	// Origin is true when the message was authored by the local identity.
	Origin bool
}

// Sink renders session output. Implementations hold no session invariants.
type Sink interface {
	// ReplaceHistory discards everything rendered so far and shows msgs in order.
	ReplaceHistory(msgs []Message)
	AppendMessage(msg Message)
	SetMessageCount(n int)
	SetOnlineCount(n int)
	ShowTyping(displayName string)
	HideTyping(displayName string)
	SetConnected(connected bool)
	Milestone(count int)
}

// Notifier plays the audible side effects.
type Notifier interface {
	MessageReceived(msg Message)
	MessageSent()
	MilestoneReached(count int)
}

// Publisher sends client -> server events. Calls are fire-and-forget: an
// error means the event was dropped, never that it will be retried.
type Publisher interface {
	JoinRoom(roomID string) error
	SendMessage(roomID string, author identity.Identity, text, sentAtLabel string) error
	Typing(roomID, displayName string) error
	StopTyping(roomID, displayName string) error
}

type nopNotifier struct{}

func (nopNotifier) MessageReceived(Message) {}
func (nopNotifier) MessageSent()            {}
func (nopNotifier) MilestoneReached(int)    {}
