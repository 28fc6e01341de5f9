package prefs

import (
	"fmt"
	"strings"
)

// ThemeKey is the key the theme preference lives under.
const ThemeKey = "theme"

type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// ParseMode accepts "dark" or "light" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Icon is the glyph shown on the toggle: a sun while dark, a moon while light.
func (m Mode) Icon() string {
	if m == Dark {
		return "☀"
	}
	return "☾"
}

// Theme reads and writes the dark/light preference.
type Theme struct {
	kv       KV
	fallback Mode
}

func NewTheme(kv KV) *Theme {
	return &Theme{kv: kv, fallback: Dark}
}

// Load returns the stored mode, or dark when nothing valid is stored or the
// store cannot be read.
func (t *Theme) Load() Mode {
	v, ok, err := t.kv.Get(ThemeKey)
	if err != nil || !ok {
		return t.fallback
	}
	m, err := ParseMode(v)
	if err != nil {
		return t.fallback
	}
	return m
}

func (t *Theme) Set(m Mode) error {
	return t.kv.Set(ThemeKey, string(m))
}

// Toggle flips the stored mode and returns the new one. On a write error the
// new mode is still returned so the caller can apply it for this session.
func (t *Theme) Toggle() (Mode, error) {
	next := t.Load().Other()
	if err := t.Set(next); err != nil {
		return next, fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}
