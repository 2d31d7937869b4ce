package protocol_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/omochice/roomtalk/pkg/protocol"
)

func TestFrame_Encode(t *testing.T) {
	tests := []struct {
		name    string
		frame   protocol.Frame
		wantErr error
	}{
		{
			name:  "encode join-room successfully",
			frame: protocol.Frame{Event: protocol.EventJoinRoom, Room: "general"},
		},
		{
			name:  "encode empty user-count successfully",
			frame: protocol.Frame{Event: protocol.EventUserCount},
		},
		{
			name:    "reject unknown event",
			frame:   protocol.Frame{Event: protocol.EventUnknown, Room: "general"},
			wantErr: protocol.ErrUnknownEvent,
		},
		{
			name:    "reject out of range event",
			frame:   protocol.Frame{Event: protocol.Event(42)},
			wantErr: protocol.ErrUnknownEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Frame.Encode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Frame.Encode() unexpected error: %v", err)
			}
			if len(data) == 0 {
				t.Error("Frame.Encode() returned empty data")
			}
		})
	}
}

func TestFrame_Decode(t *testing.T) {
	tests := []struct {
		name  string
		frame protocol.Frame
	}{
		{
			name: "send-message keeps every field",
			frame: protocol.Frame{
				Event:       protocol.EventSendMessage,
				Room:        "general",
				DisplayName: "User42",
				Text:        "hello there",
				SentAtLabel: "03:04 PM",
				ColorToken:  "linear-gradient(135deg, #48bb78 0%, #2f855a 100%)",
			},
		},
		{
			name:  "user-count carries the count",
			frame: protocol.Frame{Event: protocol.EventUserCount, Count: 7},
		},
		{
			name: "chat-history keeps entry order",
			frame: protocol.Frame{
				Event: protocol.EventChatHistory,
				History: []protocol.Entry{
					{DisplayName: "a", Text: "first", SentAtLabel: "01:00 PM", ColorToken: "red"},
					{DisplayName: "b", Text: "second"},
					{DisplayName: "c", Text: "third", ColorToken: "blue"},
				},
			},
		},
		{
			name:  "user-typing with display name only",
			frame: protocol.Frame{Event: protocol.EventUserTyping, DisplayName: "User7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			if err != nil {
				t.Fatalf("Frame.Encode() error = %v", err)
			}

			var got protocol.Frame
			if err := got.Decode(data); err != nil {
				t.Fatalf("Frame.Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.frame) {
				t.Errorf("Frame.Decode() = %+v, want %+v", got, tt.frame)
			}
		})
	}
}

func TestFrame_DecodeInvalidData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated tag", data: []byte{0xff}},
		{name: "truncated string", data: []byte{0x0a, 0x05, 'a', 'b'}},
		{name: "truncated history entry", data: []byte{0x42, 0x04, 0x0a, 0x09}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f protocol.Frame
			if err := f.Decode(tt.data); err == nil {
				t.Errorf("Frame.Decode(%v) expected error, got %+v", tt.data, f)
			}
		})
	}
}

func TestFrame_DecodeResetsPreviousContents(t *testing.T) {
	first := protocol.Frame{Event: protocol.EventMessage, Text: "old", ColorToken: "red"}
	second := protocol.Frame{Event: protocol.EventMessage, Text: "new"}

	data, err := second.Encode()
	if err != nil {
		t.Fatalf("Frame.Encode() error = %v", err)
	}
	if err := first.Decode(data); err != nil {
		t.Fatalf("Frame.Decode() error = %v", err)
	}
	if first.ColorToken != "" {
		t.Errorf("ColorToken = %q, want empty after decode", first.ColorToken)
	}
	if first.Text != "new" {
		t.Errorf("Text = %q, want %q", first.Text, "new")
	}
}

func TestFrame_Entry(t *testing.T) {
	e := protocol.Entry{DisplayName: "n", Text: "t", SentAtLabel: "s", ColorToken: "c"}

	var f protocol.Frame
	f.SetEntry(e)
	if got := f.Entry(); got != e {
		t.Errorf("Entry() = %+v, want %+v", got, e)
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		want protocol.Event
	}{
		{"join-room", protocol.EventJoinRoom},
		{"chat-history", protocol.EventChatHistory},
		{"user-count", protocol.EventUserCount},
		{"send-message", protocol.EventSendMessage},
		{"message", protocol.EventMessage},
		{"typing", protocol.EventTyping},
		{"stop-typing", protocol.EventStopTyping},
		{"user-typing", protocol.EventUserTyping},
		{"user-stop-typing", protocol.EventUserStopTyping},
		{"disconnect", protocol.EventUnknown},
		{"", protocol.EventUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := protocol.ParseEvent(tt.name)
			if got != tt.want {
				t.Fatalf("ParseEvent(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got != protocol.EventUnknown && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestEvent_Direction(t *testing.T) {
	for _, ev := range []protocol.Event{
		protocol.EventJoinRoom,
		protocol.EventChatHistory,
		protocol.EventUserCount,
		protocol.EventSendMessage,
		protocol.EventMessage,
		protocol.EventTyping,
		protocol.EventStopTyping,
		protocol.EventUserTyping,
		protocol.EventUserStopTyping,
	} {
		if ev.FromServer() == ev.FromClient() {
			t.Errorf("%v: FromServer() = FromClient() = %v", ev, ev.FromServer())
		}
	}
	if protocol.EventUnknown.FromServer() || protocol.EventUnknown.FromClient() {
		t.Error("EventUnknown must not have a direction")
	}
}
