package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omochice/roomtalk/internal/clock"
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/session"
	"github.com/omochice/roomtalk/internal/typing"
)

type fakeActions struct {
	inputs []string
	sent   []string
	joined []string
	onIn   func(string)
}

func (f *fakeActions) Input(text string) {
	f.inputs = append(f.inputs, text)
	if f.onIn != nil {
		f.onIn(text)
	}
}

func (f *fakeActions) Send(_ context.Context, text string) (bool, error) {
	f.sent = append(f.sent, text)
	return strings.TrimSpace(text) != "", nil
}

func (f *fakeActions) JoinRoom(_ context.Context, room string) error {
	f.joined = append(f.joined, room)
	return nil
}

func (f *fakeActions) Snapshot(context.Context) (session.Session, error) {
	return session.Session{RoomID: "general", OnlineCount: 2, MessageCount: 10, Connected: true}, nil
}

var me = identity.Identity{DisplayName: "User42", ColorToken: identity.Palette[0]}

func message(name, text string, origin bool) session.Message {
	return session.Message{
		Author:      identity.Identity{DisplayName: name, ColorToken: identity.Palette[0]},
		Text:        text,
		SentAtLabel: "02:07 PM",
		Origin:      origin,
	}
}

type harness struct {
	m     *Model
	fa    *fakeActions
	sink  *Sink
	store *identity.MemoryStore
	bell  *bytes.Buffer
}

func newHarness(sound bool) harness {
	h := harness{
		fa:    &fakeActions{},
		sink:  NewSink(),
		store: identity.NewMemoryStore(),
		bell:  &bytes.Buffer{},
	}
	h.m = NewModel(Options{
		Actions:      h.fa,
		Prefs:        identity.Loader{Store: h.store},
		Sink:         h.sink,
		Identity:     me,
		Room:         "general",
		Theme:        identity.ThemeLight,
		SoundEnabled: sound,
		Bell:         h.bell,
	})
	return h
}

func (h harness) typeText(s string) {
	for _, r := range s {
		h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h harness) enter() tea.Msg {
	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	return cmd()
}

// flush hands everything queued on the sink to the model.
func (h harness) flush(t *testing.T) {
	t.Helper()
	msg := h.sink.wait()()
	batch, ok := msg.(sinkBatchMsg)
	if !ok {
		t.Fatalf("sink delivered %T, want sinkBatchMsg", msg)
	}
	h.m.Update(batch)
}

func TestModel_KeystrokesReportInput(t *testing.T) {
	h := newHarness(false)

	h.typeText("hey")
	want := []string{"h", "he", "hey"}
	if strings.Join(h.fa.inputs, ",") != strings.Join(want, ",") {
		t.Errorf("inputs = %q, want %q", h.fa.inputs, want)
	}
	if len(h.fa.sent) != 0 {
		t.Errorf("sent before enter: %q", h.fa.sent)
	}

	h.m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := h.fa.inputs[len(h.fa.inputs)-1]; got != "he" {
		t.Errorf("input after backspace = %q, want %q", got, "he")
	}

	h.enter()
	if len(h.fa.sent) != 1 || h.fa.sent[0] != "he" {
		t.Errorf("sent = %q, want [he]", h.fa.sent)
	}
	if h.m.input.Value() != "" {
		t.Errorf("input not cleared: %q", h.m.input.Value())
	}
}

func TestModel_CommandsDoNotSignalTyping(t *testing.T) {
	h := newHarness(false)

	h.typeText("/so")
	for _, in := range h.fa.inputs {
		if in != "" {
			t.Fatalf("inputs = %q, want only empty text", h.fa.inputs)
		}
	}
}

type publisher struct{ events []string }

func (p *publisher) JoinRoom(string) error { return nil }
func (p *publisher) SendMessage(string, identity.Identity, string, string) error {
	p.events = append(p.events, "send-message")
	return nil
}
func (p *publisher) Typing(string, string) error {
	p.events = append(p.events, "typing")
	return nil
}
func (p *publisher) StopTyping(string, string) error {
	p.events = append(p.events, "stop-typing")
	return nil
}

func TestModel_TypingDebounce(t *testing.T) {
	clk := clock.NewManual()
	pub := &publisher{}
	ctrl := session.NewController(session.Config{
		Identity:      me,
		Publisher:     pub,
		Sink:          NewSink(),
		Scheduler:     clk,
		TypingTimeout: typing.DefaultTimeout,
	})
	ctrl.JoinRoom("general")
	ctrl.OnConnected()

	h := newHarness(false)
	h.fa.onIn = ctrl.OnInput

	h.typeText("hel")
	clk.Advance(500 * time.Millisecond)
	h.typeText("lo")
	if strings.Join(pub.events, ",") != "typing" {
		t.Fatalf("events = %q, want one typing", pub.events)
	}

	clk.Advance(typing.DefaultTimeout - time.Millisecond)
	if len(pub.events) != 1 {
		t.Fatalf("stopped early: %q", pub.events)
	}
	clk.Advance(time.Millisecond)
	if strings.Join(pub.events, ",") != "typing,stop-typing" {
		t.Errorf("events = %q, want typing then stop-typing", pub.events)
	}
}

func TestModel_ReplaceHistoryReplacesTranscript(t *testing.T) {
	h := newHarness(false)

	h.sink.ReplaceHistory([]session.Message{
		message("alice", "one", false),
		message("bob", "two", false),
		message("carol", "three", false),
	})
	h.flush(t)
	h.sink.ReplaceHistory([]session.Message{message("dave", "four", false), message("erin", "five", false)})
	h.flush(t)

	if len(h.m.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(h.m.entries))
	}
	view := h.m.viewport.View()
	for _, old := range []string{"alice", "bob", "carol"} {
		if strings.Contains(view, old) {
			t.Errorf("old history from %s still shown:\n%s", old, view)
		}
	}
	if !strings.Contains(view, "erin") || !strings.Contains(view, "five") {
		t.Errorf("new history missing:\n%s", view)
	}

	h.sink.AppendMessage(message("frank", "six", true))
	h.flush(t)
	if len(h.m.entries) != 3 || !h.m.entries[2].msg.Origin {
		t.Errorf("entries after append = %+v", h.m.entries)
	}
}

func TestModel_Status(t *testing.T) {
	h := newHarness(false)

	h.sink.SetConnected(true)
	h.sink.SetOnlineCount(2)
	h.sink.SetMessageCount(10)
	h.flush(t)
	if got := h.m.Status(); got != "connected, 2 online, 10 messages" {
		t.Errorf("Status() = %q", got)
	}
	if !strings.Contains(h.m.View(), "#general") {
		t.Errorf("view lacks room header:\n%s", h.m.View())
	}

	h.sink.ShowTyping("bob")
	h.flush(t)
	if !strings.Contains(h.m.View(), "bob is typing...") {
		t.Errorf("view lacks typing line:\n%s", h.m.View())
	}
	h.sink.SetConnected(false)
	h.flush(t)
	if strings.Contains(h.m.View(), "is typing") {
		t.Error("typing line survived disconnect")
	}
}

func TestModel_ThemeToggleRestylesNames(t *testing.T) {
	h := newHarness(false)
	token := identity.Palette[0]

	before := h.m.styles.name(token).GetForeground()
	h.typeText("/theme")
	h.enter()
	after := h.m.styles.name(token).GetForeground()

	if before != lightNameColors[0] {
		t.Errorf("light foreground = %v", before)
	}
	if after != darkNameColors[0] {
		t.Errorf("dark foreground = %v", after)
	}
	if got := (identity.Loader{Store: h.store}).LoadPreferences(context.Background()).Theme; got != identity.ThemeDark {
		t.Errorf("persisted theme = %q", got)
	}
	if h.m.styles.name("unknown").GetForeground() == after {
		t.Error("unknown token should not get a palette colour")
	}
}

func TestModel_BellFollowsSound(t *testing.T) {
	h := newHarness(true)

	h.sink.MessageReceived(message("bob", "hi", false))
	h.flush(t)
	if h.bell.String() != "\a" {
		t.Fatalf("bell = %q, want one BEL", h.bell.String())
	}

	h.typeText("/sound")
	h.enter()
	h.sink.MessageSent()
	h.sink.MilestoneReached(10)
	h.flush(t)
	if h.bell.String() != "\a" {
		t.Errorf("bell rang while muted: %q", h.bell.String())
	}
	if (identity.Loader{Store: h.store}).LoadPreferences(context.Background()).SoundEnabled {
		t.Error("muted sound not persisted")
	}
}

func TestModel_JoinCommand(t *testing.T) {
	h := newHarness(false)

	h.typeText("/join random")
	h.enter()
	if len(h.fa.joined) != 1 || h.fa.joined[0] != "random" {
		t.Errorf("joined = %q", h.fa.joined)
	}
	if h.m.room != "random" {
		t.Errorf("room = %q", h.m.room)
	}

	h.typeText("/join")
	h.enter()
	if len(h.fa.joined) != 1 || !strings.Contains(h.m.notice, "usage") {
		t.Errorf("joined = %q, notice = %q", h.fa.joined, h.m.notice)
	}
	if len(h.fa.sent) != 0 {
		t.Errorf("commands were sent as messages: %q", h.fa.sent)
	}
}

func TestModel_StatusAndQuitCommands(t *testing.T) {
	h := newHarness(false)

	h.typeText("/status")
	msg := h.enter()
	if _, ok := msg.(statusMsg); !ok {
		t.Fatalf("status command produced %T", msg)
	}
	h.m.Update(msg)
	if h.m.notice != "#general: connected, 2 online, 10 messages" {
		t.Errorf("notice = %q", h.m.notice)
	}

	h.typeText("/quit")
	if _, ok := h.enter().(tea.QuitMsg); !ok {
		t.Error("/quit did not quit")
	}
}

func TestModel_RejectsLongMessages(t *testing.T) {
	h := newHarness(false)

	h.m.input.SetValue(strings.Repeat("x", MaxMessageLength+1))
	if !strings.Contains(h.m.View(), "501/500") {
		t.Errorf("counter missing from view")
	}
	h.enter()
	if len(h.fa.sent) != 0 {
		t.Error("over-long message was sent")
	}
	if !strings.Contains(h.m.notice, "message too long") {
		t.Errorf("notice = %q", h.m.notice)
	}
}

func TestSink_DropsAfterClose(t *testing.T) {
	s := NewSink()
	s.Close()
	s.SetOnlineCount(3)
	if msg := s.wait()(); msg != nil {
		t.Errorf("closed sink delivered %T", msg)
	}
}

func TestCheckLength(t *testing.T) {
	if err := CheckLength(strings.Repeat("é", MaxMessageLength)); err != nil {
		t.Errorf("500 characters rejected: %v", err)
	}
	if err := CheckLength(strings.Repeat("x", MaxMessageLength+1)); !errors.Is(err, ErrTooLong) {
		t.Errorf("err = %v, want ErrTooLong", err)
	}
}
