// Package export writes the particle field and bench series as SVG.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/driftfield/internal/particle"
)

// Colors for an SVG document, as "#rrggbb".
type Colors struct {
	Background string
	Particle   string
	Link       string
}

var DefaultColors = Colors{Background: "#0a0a0a", Particle: "#ffffff", Link: "#8888bb"}

type svgCircle struct{ x, y, r float64 }

type svgLine struct{ x0, y0, x1, y1, opacity float64 }

// SVG is a Surface that keeps the last rendered frame as vector shapes, so
// link opacity survives exactly instead of being stippled.
type SVG struct {
	Width, Height float64
	Colors        Colors

	circles []svgCircle
	lines   []svgLine
}

var _ particle.Surface = (*SVG)(nil)

func NewSVG(b particle.Bounds, c Colors) *SVG {
	return &SVG{Width: b.Width, Height: b.Height, Colors: c}
}

func (s *SVG) Clear() {
	s.circles = s.circles[:0]
	s.lines = s.lines[:0]
}

func (s *SVG) Circle(x, y, r float64) {
	s.circles = append(s.circles, svgCircle{x, y, r})
}

func (s *SVG) Line(x0, y0, x1, y1, opacity float64) {
	s.lines = append(s.lines, svgLine{x0, y0, x1, y1, opacity})
}

// Shapes reports how many circles and lines the last frame drew.
func (s *SVG) Shapes() (circles, lines int) { return len(s.circles), len(s.lines) }

// String renders the frame. Links go underneath the particles.
func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Colors.Background))

	sb.WriteString(fmt.Sprintf("<g stroke=\"%s\" stroke-width=\"1\">\n", s.Colors.Link))
	for _, l := range s.lines {
		sb.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-opacity=\"%.3f\"/>\n",
			l.x0, l.y0, l.x1, l.y1, l.opacity))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", s.Colors.Particle))
	for _, c := range s.circles {
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", c.x, c.y, c.r))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// SeriesToSVG draws values as a polyline chart, e.g. links per frame.
func SeriesToSVG(values []float64, width, height int, c Colors) string {
	if len(values) < 2 {
		return ""
	}

	// Find bounds
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, c.Background, c.Link))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
