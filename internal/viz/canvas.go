package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/driftfield/internal/particle"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank     = 0x2800
	maxLevel  = 3
	lineLevel = 2
)

// Canvas is a braille grid that a particle field renders onto. Field units
// are multiplied by Scale to get sub-pixels, so one cell covers 2/Scale by
// 4/Scale field units.
type Canvas struct {
	Width, Height int
	Scale         float64
	Grid          [][]rune
	// level holds the brightest thing drawn in each cell this frame.
	level [][]uint8
}

var _ particle.Surface = (*Canvas)(nil)

func NewCanvas(w, h int, scale float64) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{Scale: scale}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid for w x h cells and clears it.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.level = make([][]uint8, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.level[i] = make([]uint8, w)
	}
	c.Clear()
}

// Bounds is the canvas area in field units.
func (c *Canvas) Bounds() particle.Bounds {
	return particle.Bounds{
		Width:  float64(c.Width*2) / c.Scale,
		Height: float64(c.Height*4) / c.Scale,
	}
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) { c.plot(x, y, maxLevel) }

func (c *Canvas) plot(x, y int, lvl uint8) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if lvl > c.level[row][col] {
		c.level[row][col] = lvl
	}
}

// Level reports the intensity recorded for a cell, 0 when empty.
func (c *Canvas) Level(col, row int) uint8 {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return c.level[row][col]
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.level[i][j] = 0
		}
	}
}

// Circle fills a disc. Anything smaller than a sub-pixel still lights one dot.
func (c *Canvas) Circle(x, y, r float64) {
	cx, cy := int(math.Round(x*c.Scale)), int(math.Round(y*c.Scale))
	rr := r * c.Scale
	if rr < 0.5 {
		c.plot(cx, cy, maxLevel)
		return
	}
	ri := int(math.Ceil(rr))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= rr*rr {
				c.plot(cx+dx, cy+dy, maxLevel)
			}
		}
	}
}

// Line draws a stippled line whose dot density follows opacity.
func (c *Canvas) Line(x0, y0, x1, y1, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	lvl := uint8(1)
	if opacity >= 0.5 {
		lvl = lineLevel
	}
	c.drawLine(
		int(math.Round(x0*c.Scale)), int(math.Round(y0*c.Scale)),
		int(math.Round(x1*c.Scale)), int(math.Round(y1*c.Scale)),
		opacity, lvl,
	)
}

// drawLine is Bresenham's algorithm with an accumulator that skips dots so
// that roughly density of them are lit.
func (c *Canvas) drawLine(x0, y0, x1, y1 int, density float64, lvl uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	acc := 0.5

	for {
		acc += density
		if acc >= 1 {
			acc--
			c.plot(x0, y0, lvl)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours every cell by its level using p. Runs of equal level share
// one style call.
func (c *Canvas) Render(p Palette) string {
	var styles [maxLevel + 1]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(p.Levels[i])
	}

	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.level[row][col] == c.level[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			b.WriteString(styles[c.level[row][start]].Render(run))
			start = col
		}
		if row < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
