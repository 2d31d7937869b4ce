package protocol

import (
	"math"
	"testing"

	"github.com/omochice/roomtalk/pkg/protocol/pb"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func TestFrame_DecodeSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = appendString(b, 1, "message")
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)
	b = appendString(b, 4, "hi")
	b = protowire.AppendTag(b, 100, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future"))

	var f Frame
	if err := f.Decode(b); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if f.Event != EventMessage {
		t.Errorf("Event = %v, want %v", f.Event, EventMessage)
	}
	if f.Text != "hi" {
		t.Errorf("Text = %q, want %q", f.Text, "hi")
	}
}

func TestFrame_DecodeSkipsMismatchedWireType(t *testing.T) {
	var b []byte
	b = appendString(b, 1, "user-count")
	// count sent as bytes instead of varint
	b = protowire.AppendTag(b, 7, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{1, 2, 3})
	// text sent as varint instead of bytes
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	var f Frame
	if err := f.Decode(b); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if f.Count != 0 || f.Text != "" {
		t.Errorf("Decode() = %+v, want mismatched fields ignored", f)
	}
}

func TestFrame_DecodeUnknownEventName(t *testing.T) {
	b := appendString(nil, 1, "reaction")

	var f Frame
	if err := f.Decode(b); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if f.Event != EventUnknown {
		t.Errorf("Event = %v, want %v", f.Event, EventUnknown)
	}
}

func TestFrame_WireLayout(t *testing.T) {
	f := Frame{Event: EventJoinRoom, Room: "general"}
	got, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := appendString(appendString(nil, 1, "join-room"), 2, "general")
	if string(got) != string(want) {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestFrame_ToProto(t *testing.T) {
	f := Frame{
		Event:   EventChatHistory,
		Count:   -3,
		History: []Entry{{DisplayName: "a", Text: "x"}},
	}
	got := f.toProto()
	if got.GetEvent() != "chat-history" {
		t.Errorf("Event = %q, want chat-history", got.GetEvent())
	}
	if got.GetCount() != 0 {
		t.Errorf("Count = %d, want negative counts clamped to 0", got.GetCount())
	}
	if len(got.GetHistory()) != 1 || got.GetHistory()[0].GetDisplayName() != "a" {
		t.Errorf("History = %v", got.GetHistory())
	}
}

func TestFrame_FromProto(t *testing.T) {
	f := Frame{Text: "stale", History: []Entry{{Text: "stale"}}}
	f.fromProto(&pb.Frame{Event: "user-count", Count: math.MaxUint64})

	if f.Event != EventUserCount {
		t.Errorf("Event = %v, want %v", f.Event, EventUserCount)
	}
	if f.Count != math.MaxInt {
		t.Errorf("Count = %d, want clamped to MaxInt", f.Count)
	}
	if f.Text != "" || f.History != nil {
		t.Errorf("fromProto kept previous contents: %+v", f)
	}
}

func TestCountFromProto(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want int
	}{
		{name: "zero", in: 0, want: 0},
		{name: "small", in: 12, want: 12},
		{name: "overflow clamps", in: math.MaxUint64, want: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countFromProto(tt.in); got != tt.want {
				t.Errorf("countFromProto(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
