package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/driftfield/internal/prefs"
)

// Palette defines the colours for one theme mode.
type Palette struct {
	Mode       prefs.Mode
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	// Levels colour canvas cells from faint links (index 1) to particles (index 3).
	Levels [4]lipgloss.Color
}

var (
	PaletteDark = Palette{
		Mode:       prefs.Dark,
		Primary:    lipgloss.Color("#00ffff"),
		Secondary:  lipgloss.Color("#ff00ff"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Levels: [4]lipgloss.Color{
			lipgloss.Color("#0a0a0a"),
			lipgloss.Color("#3a3a55"),
			lipgloss.Color("#8888bb"),
			lipgloss.Color("#ffffff"),
		},
	}

	PaletteLight = Palette{
		Mode:       prefs.Light,
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#b0307a"),
		Accent:     lipgloss.Color("#c06000"),
		Background: lipgloss.Color("#fafafa"),
		Text:       lipgloss.Color("#1a1a1a"),
		Muted:      lipgloss.Color("#8b8b99"),
		Levels: [4]lipgloss.Color{
			lipgloss.Color("#fafafa"),
			lipgloss.Color("#c8c8d8"),
			lipgloss.Color("#6a6a8a"),
			lipgloss.Color("#1a1a2e"),
		},
	}
)

// PaletteFor returns the palette for m, dark for anything unknown.
func PaletteFor(m prefs.Mode) Palette {
	if m == prefs.Light {
		return PaletteLight
	}
	return PaletteDark
}
