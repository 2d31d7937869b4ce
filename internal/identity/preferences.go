package identity

import (
	"context"
	"strconv"
	"sync"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences are the per-device settings besides identity.
type Preferences struct {
	SoundEnabled bool
	Theme        Theme
}

// LoadPreferences reads each preference independently. Sound is on unless
// explicitly stored as "false"; the theme defaults to light.
func (l Loader) LoadPreferences(ctx context.Context) Preferences {
	p := Preferences{SoundEnabled: true, Theme: ThemeLight}
	if l.get(ctx, KeySoundEnabled) == "false" {
		p.SoundEnabled = false
	}
	switch Theme(l.get(ctx, KeyTheme)) {
	case ThemeDark:
		p.Theme = ThemeDark
	case ThemeLight:
		p.Theme = ThemeLight
	}
	return p
}

// SaveSoundEnabled persists the sound flag.
func (l Loader) SaveSoundEnabled(ctx context.Context, enabled bool) {
	l.set(ctx, KeySoundEnabled, strconv.FormatBool(enabled))
}

// SaveTheme persists the theme.
func (l Loader) SaveTheme(ctx context.Context, theme Theme) {
	l.set(ctx, KeyTheme, string(theme))
}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
