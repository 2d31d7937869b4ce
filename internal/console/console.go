// Package console is the terminal front end of the chat client: a bubbletea
// model that renders a session and turns keystrokes into session actions.
package console

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/omochice/roomtalk/internal/identity"
)

// MaxMessageLength is the longest message the console accepts, in characters.
const MaxMessageLength = 500

// ErrTooLong rejects input over MaxMessageLength.
var ErrTooLong = errors.New("message too long")

// CheckLength returns ErrTooLong when text has more than MaxMessageLength characters.
func CheckLength(text string) error {
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return fmt.Errorf("%w: %d/%d characters", ErrTooLong, n, MaxMessageLength)
	}
	return nil
}

// Name colours per palette entry. Light backgrounds get the darker gradient
// stop, dark backgrounds the lighter one.
var (
	lightNameColors = []lipgloss.Color{"#c53030", "#c05621", "#b7791f", "#2f855a", "#2c7a7b", "#2b6cb0", "#764ba2", "#6b46c1"}
	darkNameColors  = []lipgloss.Color{"#f56565", "#ed8936", "#ecc94b", "#48bb78", "#38b2ac", "#4299e1", "#667eea", "#9f7aea"}
)

type styles struct {
	names     []lipgloss.Style
	fallback  lipgloss.Style
	meta      lipgloss.Style
	text      lipgloss.Style
	header    lipgloss.Style
	status    lipgloss.Style
	notice    lipgloss.Style
	milestone lipgloss.Style
	counter   lipgloss.Style
	overLimit lipgloss.Style
}

func newStyles(theme identity.Theme) styles {
	colors, text, dim := lightNameColors, lipgloss.Color("235"), lipgloss.Color("244")
	if theme == identity.ThemeDark {
		colors, text, dim = darkNameColors, lipgloss.Color("252"), lipgloss.Color("242")
	}
	s := styles{
		fallback:  lipgloss.NewStyle().Bold(true).Foreground(text),
		meta:      lipgloss.NewStyle().Foreground(dim),
		text:      lipgloss.NewStyle().Foreground(text),
		header:    lipgloss.NewStyle().Bold(true).Foreground(colors[6]),
		status:    lipgloss.NewStyle().Foreground(dim),
		notice:    lipgloss.NewStyle().Italic(true).Foreground(dim),
		milestone: lipgloss.NewStyle().Bold(true).Foreground(colors[2]),
		counter:   lipgloss.NewStyle().Foreground(dim),
		overLimit: lipgloss.NewStyle().Bold(true).Foreground(colors[0]),
	}
	for _, c := range colors {
		s.names = append(s.names, lipgloss.NewStyle().Bold(true).Foreground(c))
	}
	return s
}

// name returns the style for a palette token; unknown tokens get a plain bold name.
func (s styles) name(token string) lipgloss.Style {
	for i, p := range identity.Palette {
		if p == token {
			return s.names[i]
		}
	}
	return s.fallback
}
