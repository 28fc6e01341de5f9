package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of the interactive view, built from a
// Palette so a theme toggle restyles everything at once.
type Styles struct {
	Header    lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Graph     lipgloss.Style
	Help      lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Overlay   lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Muted).
			Padding(0, 2).
			Width(panelWidth),
		Label:   lipgloss.NewStyle().Foreground(p.Muted).Width(10),
		Value:   lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Graph:   lipgloss.NewStyle().Foreground(p.Secondary),
		Help:    lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Running: lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Recording: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
	}
}

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	start := hexRGBA(startColor)
	end := hexRGBA(endColor)

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		r := lerpByte(start.R, end.R, t)
		g := lerpByte(start.G, end.G, t)
		b := lerpByte(start.B, end.B, t)

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(int(r), int(g), int(b))))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders a filled/empty bar of width cells.
func ProgressBar(percent float64, width int, fill lipgloss.Color) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(fill).Render(bar)
}

// Separator is a muted rule with a diamond in the middle.
func Separator(width int, muted lipgloss.Color) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return lipgloss.NewStyle().Foreground(muted).Render(left + " ◆ " + right)
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)))
}

// hexRGBA parses "#rrggbb"; anything else comes back white.
func hexRGBA(c lipgloss.Color) color.RGBA {
	hex := string(c)
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{
		R: uint8(parseHexByte(hex[1:3])),
		G: uint8(parseHexByte(hex[3:5])),
		B: uint8(parseHexByte(hex[5:7])),
		A: 255,
	}
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		if c >= '0' && c <= '9' {
			val += int(c - '0')
		} else if c >= 'a' && c <= 'f' {
			val += int(c - 'a' + 10)
		} else if c >= 'A' && c <= 'F' {
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
