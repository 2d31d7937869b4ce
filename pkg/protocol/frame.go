package protocol

//go:generate protoc --go_out=pb --go_opt=paths=source_relative --proto_path=../../proto ../../proto/frame.proto

import (
	"errors"
	"fmt"
	"math"

	"github.com/omochice/roomtalk/pkg/protocol/pb"
	"google.golang.org/protobuf/proto"
)

// ErrUnknownEvent is returned when encoding a frame without a known event.
var ErrUnknownEvent = errors.New("unknown event")

// Entry is one chat message as carried by message and chat-history events.
type Entry struct {
	DisplayName string
	Text        string
	SentAtLabel string
	ColorToken  string
}

// Frame is a single event on the wire. Only the fields relevant to Event are
// populated; the rest stay at their zero value.
type Frame struct {
	Event       Event
	Room        string
	DisplayName string
	Text        string
	SentAtLabel string
	ColorToken  string
	Count       int
	History     []Entry
}

// Entry returns the message fields of the frame.
func (f *Frame) Entry() Entry {
	return Entry{
		DisplayName: f.DisplayName,
		Text:        f.Text,
		SentAtLabel: f.SentAtLabel,
		ColorToken:  f.ColorToken,
	}
}

// SetEntry copies the message fields of e into the frame.
func (f *Frame) SetEntry(e Entry) {
	f.DisplayName = e.DisplayName
	f.Text = e.Text
	f.SentAtLabel = e.SentAtLabel
	f.ColorToken = e.ColorToken
}

// Encode encodes the frame into bytes using protobuf.
func (f *Frame) Encode() ([]byte, error) {
	if f.Event.String() == "unknown" {
		return nil, fmt.Errorf("failed to encode frame: %w", ErrUnknownEvent)
	}
	data, err := proto.Marshal(f.toProto())
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}

// Decode decodes bytes into the frame, replacing its previous contents.
// Unknown fields and fields with an unexpected wire type are skipped.
func (f *Frame) Decode(data []byte) error {
	pbFrame := &pb.Frame{}
	if err := proto.Unmarshal(data, pbFrame); err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}
	f.fromProto(pbFrame)
	return nil
}

// toProto converts the Frame to its protobuf message.
func (f *Frame) toProto() *pb.Frame {
	pbFrame := &pb.Frame{
		Event:       f.Event.String(),
		Room:        f.Room,
		DisplayName: f.DisplayName,
		Text:        f.Text,
		SentAtLabel: f.SentAtLabel,
		ColorToken:  f.ColorToken,
		Count:       countToProto(f.Count),
	}
	for _, e := range f.History {
		pbFrame.History = append(pbFrame.History, &pb.Entry{
			DisplayName: e.DisplayName,
			Text:        e.Text,
			SentAtLabel: e.SentAtLabel,
			ColorToken:  e.ColorToken,
		})
	}
	return pbFrame
}

// fromProto replaces the Frame with the contents of a protobuf message.
// Unknown event names become EventUnknown rather than an error.
func (f *Frame) fromProto(pbFrame *pb.Frame) {
	*f = Frame{
		Event:       ParseEvent(pbFrame.GetEvent()),
		Room:        pbFrame.GetRoom(),
		DisplayName: pbFrame.GetDisplayName(),
		Text:        pbFrame.GetText(),
		SentAtLabel: pbFrame.GetSentAtLabel(),
		ColorToken:  pbFrame.GetColorToken(),
		Count:       countFromProto(pbFrame.GetCount()),
	}
	if n := len(pbFrame.GetHistory()); n > 0 {
		f.History = make([]Entry, 0, n)
		for _, e := range pbFrame.GetHistory() {
			f.History = append(f.History, Entry{
				DisplayName: e.GetDisplayName(),
				Text:        e.GetText(),
				SentAtLabel: e.GetSentAtLabel(),
				ColorToken:  e.GetColorToken(),
			})
		}
	}
}

// countToProto clamps negative counts to zero.
func countToProto(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// countFromProto clamps counts that do not fit in an int.
func countFromProto(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
