package transport_test

import (
	"errors"
	"testing"

	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/transport"
	"github.com/omochice/roomtalk/pkg/protocol"
)

func TestEmitter_Frames(t *testing.T) {
	var got []protocol.Frame
	e := transport.NewEmitter(transport.FrameWriterFunc(func(f protocol.Frame) error {
		got = append(got, f)
		return nil
	}))
	author := identity.Identity{DisplayName: "User7", ColorToken: identity.Palette[3]}

	if err := e.JoinRoom("general"); err != nil {
		t.Fatal(err)
	}
	if err := e.SendMessage("general", author, "hello", "10:15 AM"); err != nil {
		t.Fatal(err)
	}
	if err := e.Typing("general", "User7"); err != nil {
		t.Fatal(err)
	}
	if err := e.StopTyping("general", "User7"); err != nil {
		t.Fatal(err)
	}

	want := []protocol.Frame{
		{Event: protocol.EventJoinRoom, Room: "general"},
		{Event: protocol.EventSendMessage, Room: "general", DisplayName: "User7", Text: "hello", SentAtLabel: "10:15 AM", ColorToken: identity.Palette[3]},
		{Event: protocol.EventTyping, Room: "general", DisplayName: "User7"},
		{Event: protocol.EventStopTyping, Room: "general", DisplayName: "User7"},
	}
	if len(got) != len(want) {
		t.Fatalf("frames = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Event != want[i].Event || got[i].Room != want[i].Room ||
			got[i].Entry() != want[i].Entry() {
			t.Errorf("frame %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEmitter_PropagatesWriterError(t *testing.T) {
	e := transport.NewEmitter(transport.FrameWriterFunc(func(protocol.Frame) error {
		return transport.ErrNotConnected
	}))

	if err := e.JoinRoom("general"); !errors.Is(err, transport.ErrNotConnected) {
		t.Errorf("JoinRoom() error = %v, want ErrNotConnected", err)
	}
}
