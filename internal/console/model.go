package console

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/session"
)

const helpText = "/join <room>, /sound, /theme, /status, /quit"

// Actions is the part of the chat client the console drives.
// client.Client implements it.
type Actions interface {
	Input(text string)
	Send(ctx context.Context, text string) (bool, error)
	JoinRoom(ctx context.Context, roomID string) error
	Snapshot(ctx context.Context) (session.Session, error)
}

// PreferenceSaver persists the toggles; identity.Loader implements it.
type PreferenceSaver interface {
	SaveSoundEnabled(ctx context.Context, enabled bool)
	SaveTheme(ctx context.Context, theme identity.Theme)
}

// Options configure a Model. Actions and Sink are required.
type Options struct {
	Context      context.Context
	Actions      Actions
	Prefs        PreferenceSaver
	Sink         *Sink
	Identity     identity.Identity
	Room         string
	Theme        identity.Theme
	SoundEnabled bool
	// Bell receives "\a" for each notification while sound is on.
	Bell io.Writer
}

type noticeMsg string

type statusMsg session.Session

type entryKind int

const (
	entryMessage entryKind = iota
	entryMilestone
)

type entry struct {
	kind  entryKind
	msg   session.Message
	count int
}

// Model implements the chat screen: a scrolling transcript, a status header
// and an input line whose every edit is reported as typing input.
type Model struct {
	ctx     context.Context
	actions Actions
	prefs   PreferenceSaver
	sink    *Sink
	bell    io.Writer
	self    identity.Identity

	input    textinput.Model
	viewport viewport.Model
	styles   styles
	width    int
	height   int

	room      string
	theme     identity.Theme
	sound     bool
	connected bool
	online    int
	count     int
	typing    map[string]bool
	entries   []entry
	notice    string
}

// NewModel creates the chat screen.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	room := strings.TrimSpace(opts.Room)
	if room == "" {
		room = session.DefaultRoom
	}

	input := textinput.New()
	input.Placeholder = "Type a message, " + helpText
	input.Prompt = "› "
	input.Focus()

	m := &Model{
		ctx:      ctx,
		actions:  opts.Actions,
		prefs:    opts.Prefs,
		sink:     opts.Sink,
		bell:     opts.Bell,
		self:     opts.Identity,
		input:    input,
		viewport: viewport.New(80, 20),
		styles:   newStyles(opts.Theme),
		width:    80,
		height:   25,
		room:     room,
		theme:    opts.Theme,
		sound:    opts.SoundEnabled,
		typing:   make(map[string]bool),
	}
	m.resize()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.sink.wait(), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case sinkBatchMsg:
		for _, ev := range msg {
			m.apply(ev)
		}
		m.refresh()
		return m, m.sink.wait()
	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	case statusMsg:
		m.notice = fmt.Sprintf("#%s: %s", msg.RoomID, statusLine(msg.Connected, msg.OnlineCount, msg.MessageCount))
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.actions.Input(typingText(after))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	header := m.styles.header.Render("#"+m.room) + "  " +
		m.styles.name(m.self.ColorToken).Render(m.self.DisplayName) + "  " +
		m.styles.status.Render(m.Status())

	typing := m.styles.notice.Render(typingLine(m.typing))
	notice := m.styles.notice.Render(m.notice)

	n := utf8.RuneCountInString(m.input.Value())
	counterStyle := m.styles.counter
	if n > MaxMessageLength {
		counterStyle = m.styles.overLimit
	}
	counter := counterStyle.Render(fmt.Sprintf("%d/%d", n, MaxMessageLength))
	input := lipgloss.JoinHorizontal(lipgloss.Top, m.input.View(), "  ", counter)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), typing, notice, input)
}

// Status summarises the session counters, e.g. "connected, 2 online, 10 messages".
func (m *Model) Status() string {
	return statusLine(m.connected, m.online, m.count)
}

func statusLine(connected bool, online, count int) string {
	state := "disconnected"
	if connected {
		state = "connected"
	}
	return fmt.Sprintf("%s, %d online, %d messages", state, online, count)
}

func (m *Model) apply(ev tea.Msg) {
	switch ev := ev.(type) {
	case historyMsg:
		m.entries = m.entries[:0]
		for _, msg := range ev {
			m.entries = append(m.entries, entry{kind: entryMessage, msg: msg})
		}
	case appendMsg:
		delete(m.typing, ev.Author.DisplayName)
		m.entries = append(m.entries, entry{kind: entryMessage, msg: session.Message(ev)})
	case messageCountMsg:
		m.count = int(ev)
	case onlineCountMsg:
		m.online = int(ev)
	case typingMsg:
		if ev.typing {
			m.typing[ev.name] = true
		} else {
			delete(m.typing, ev.name)
		}
	case connectedMsg:
		if bool(ev) == m.connected {
			return
		}
		m.connected = bool(ev)
		if m.connected {
			m.notice = "connected"
		} else {
			clear(m.typing)
			m.notice = "disconnected, reconnecting..."
		}
	case milestoneMsg:
		m.entries = append(m.entries, entry{kind: entryMilestone, count: int(ev)})
	case bellMsg:
		if m.sound && m.bell != nil {
			_, _ = io.WriteString(m.bell, "\a")
		}
	}
}

func (m *Model) submit() tea.Cmd {
	raw := m.input.Value()
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.command(text)
	}
	if err := CheckLength(raw); err != nil {
		m.notice = err.Error()
		return nil
	}
	m.input.Reset()

	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		if _, err := actions.Send(ctx, raw); err != nil {
			return noticeMsg("send failed: " + err.Error())
		}
		return nil
	}
}

func (m *Model) command(line string) tea.Cmd {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	ctx, actions := m.ctx, m.actions

	switch name {
	case "/quit", "/exit":
		return tea.Quit
	case "/join":
		if arg == "" {
			m.notice = "usage: /join <room>"
			return nil
		}
		m.room = arg
		clear(m.typing)
		m.notice = "joining #" + arg
		return func() tea.Msg {
			if err := actions.JoinRoom(ctx, arg); err != nil {
				return noticeMsg("join failed: " + err.Error())
			}
			return nil
		}
	case "/sound":
		m.sound = !m.sound
		if m.prefs != nil {
			m.prefs.SaveSoundEnabled(ctx, m.sound)
		}
		m.notice = "sound " + onOff(m.sound)
	case "/theme":
		m.theme = m.theme.Toggle()
		m.styles = newStyles(m.theme)
		m.refresh()
		if m.prefs != nil {
			m.prefs.SaveTheme(ctx, m.theme)
		}
		m.notice = "theme " + string(m.theme)
	case "/status":
		return func() tea.Msg {
			snap, err := actions.Snapshot(ctx)
			if err != nil {
				return noticeMsg("status unavailable: " + err.Error())
			}
			return statusMsg(snap)
		}
	case "/help":
		m.notice = helpText
	default:
		m.notice = "unknown command " + name
	}
	return nil
}

func (m *Model) resize() {
	m.viewport.Width = max(m.width, 1)
	// header, typing line, notice line and input
	m.viewport.Height = max(m.height-4, 1)
	m.input.Width = max(m.width-len(m.input.Prompt)-12, 10)
	m.refresh()
}

// refresh re-renders the transcript into the viewport, pinned to the newest line.
func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript(), "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) transcript() []string {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if e.kind == entryMilestone {
			lines = append(lines, m.styles.milestone.Render(fmt.Sprintf("*** %d messages in this room! ***", e.count)))
			continue
		}
		marker := "  "
		if e.msg.Origin {
			marker = "> "
		}
		lines = append(lines, marker+
			m.styles.meta.Render("["+e.msg.SentAtLabel+"]")+" "+
			m.styles.name(e.msg.Author.ColorToken).Render(e.msg.Author.DisplayName)+": "+
			m.styles.text.Render(e.msg.Text))
	}
	return lines
}

// typingText hides slash commands from typing presence.
func typingText(v string) string {
	if strings.HasPrefix(strings.TrimSpace(v), "/") {
		return ""
	}
	return v
}

func typingLine(typing map[string]bool) string {
	if len(typing) == 0 {
		return ""
	}
	names := make([]string, 0, len(typing))
	for n := range typing {
		names = append(names, n)
	}
	sort.Strings(names)
	if len(names) == 1 {
		return names[0] + " is typing..."
	}
	return strings.Join(names, ", ") + " are typing..."
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
