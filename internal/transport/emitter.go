package transport

import (
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/session"
	"github.com/omochice/roomtalk/pkg/protocol"
)

// FrameWriter accepts an outbound frame without blocking on the network.
type FrameWriter interface {
	WriteFrame(f protocol.Frame) error
}

// FrameWriterFunc adapts a function to FrameWriter.
type FrameWriterFunc func(f protocol.Frame) error

// WriteFrame implements FrameWriter.
func (fn FrameWriterFunc) WriteFrame(f protocol.Frame) error {
	return fn(f)
}

// Emitter builds client -> server frames for session actions.
type Emitter struct {
	w FrameWriter
}

// NewEmitter creates an Emitter writing through w.
func NewEmitter(w FrameWriter) *Emitter {
	return &Emitter{w: w}
}

// JoinRoom implements session.Publisher.
func (e *Emitter) JoinRoom(roomID string) error {
	return e.w.WriteFrame(protocol.Frame{Event: protocol.EventJoinRoom, Room: roomID})
}

// SendMessage implements session.Publisher.
func (e *Emitter) SendMessage(roomID string, author identity.Identity, text, sentAtLabel string) error {
	f := protocol.Frame{Event: protocol.EventSendMessage, Room: roomID}
	f.SetEntry(protocol.Entry{
		DisplayName: author.DisplayName,
		Text:        text,
		SentAtLabel: sentAtLabel,
		ColorToken:  author.ColorToken,
	})
	return e.w.WriteFrame(f)
}

// Typing implements session.Publisher.
func (e *Emitter) Typing(roomID, displayName string) error {
	return e.w.WriteFrame(protocol.Frame{Event: protocol.EventTyping, Room: roomID, DisplayName: displayName})
}

// StopTyping implements session.Publisher.
func (e *Emitter) StopTyping(roomID, displayName string) error {
	return e.w.WriteFrame(protocol.Frame{Event: protocol.EventStopTyping, Room: roomID, DisplayName: displayName})
}

var _ session.Publisher = (*Emitter)(nil)
