// Package identity produces the self-asserted local identity and the other
// per-device preferences, persisting them in a key/value Store.
package identity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeyDisplayName  = "display_name"
	KeyColorToken   = "color_token"
	KeySoundEnabled = "sound_enabled"
	KeyTheme        = "theme"
)

// Palette is the fixed set of color tokens handed out to new identities.
var Palette = []string{
	"linear-gradient(135deg, #f56565 0%, #c53030 100%)",
	"linear-gradient(135deg, #ed8936 0%, #c05621 100%)",
	"linear-gradient(135deg, #ecc94b 0%, #b7791f 100%)",
	"linear-gradient(135deg, #48bb78 0%, #2f855a 100%)",
	"linear-gradient(135deg, #38b2ac 0%, #2c7a7b 100%)",
	"linear-gradient(135deg, #4299e1 0%, #2b6cb0 100%)",
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #9f7aea 0%, #6b46c1 100%)",
}

// DefaultColorToken stands in for a missing color on inbound messages.
var DefaultColorToken = Palette[6]

// Identity is the display name and color a user appears with.
type Identity struct {
	DisplayName string
	ColorToken  string
}

// Store is a string key/value store. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Loader reads and writes identity and preferences. A nil Store makes every
// value ephemeral.
type Loader struct {
	Store  Store
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Load returns the persisted identity, generating and persisting any missing
// field. It never fails: when the store is unusable the generated identity is
// only valid for this process.
func (l Loader) Load(ctx context.Context) Identity {
	id := Identity{
		DisplayName: l.get(ctx, KeyDisplayName),
		ColorToken:  l.get(ctx, KeyColorToken),
	}
	if id.DisplayName == "" {
		id.DisplayName = fmt.Sprintf("User%d", l.intN(10000))
	}
	if id.ColorToken == "" {
		id.ColorToken = Palette[l.intN(len(Palette))]
	}

	l.set(ctx, KeyDisplayName, id.DisplayName)
	l.set(ctx, KeyColorToken, id.ColorToken)
	return id
}

func (l Loader) intN(n int) int {
	if l.Rand != nil {
		return l.Rand.IntN(n)
	}
	return rand.IntN(n)
}

func (l Loader) get(ctx context.Context, key string) string {
	if l.Store == nil {
		return ""
	}
	v, ok, err := l.Store.Get(ctx, key)
	if err != nil {
		l.logger().Debug("preference read failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func (l Loader) set(ctx context.Context, key, value string) {
	if l.Store == nil {
		return
	}
	if err := l.Store.Set(ctx, key, value); err != nil {
		l.logger().Debug("preference write failed", zap.String("key", key), zap.Error(err))
	}
}

func (l Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
