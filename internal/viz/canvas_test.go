package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/driftfield/internal/particle"
)

func TestCanvasBounds(t *testing.T) {
	c := NewCanvas(10, 5, 0.5)
	b := c.Bounds()
	if b.Width != 40 || b.Height != 40 {
		t.Errorf("expected 40x40, got %vx%v", b.Width, b.Height)
	}
	if NewCanvas(1, 1, 0).Scale != 1 {
		t.Error("expected non-positive scale to fall back to 1")
	}
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}
	c.Clear()
	if c.Grid[0][0] != blank || c.Level(0, 0) != 0 {
		t.Error("expected clear to blank the grid")
	}
}

func TestCanvasClipsOutside(t *testing.T) {
	c := NewCanvas(2, 2, 1)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 8)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected nothing drawn, got %U", r)
			}
		}
	}
}

func TestCanvasCircleLevel(t *testing.T) {
	c := NewCanvas(4, 2, 1)
	c.Circle(3, 3, 1)
	if c.Level(1, 0) != maxLevel {
		t.Errorf("expected particle level in cell (1,0), got %d", c.Level(1, 0))
	}
	if c.Level(3, 1) != 0 {
		t.Errorf("expected far cell untouched")
	}
}

func TestCanvasLineOpacity(t *testing.T) {
	count := func(c *Canvas) int {
		n := 0
		for _, row := range c.Grid {
			for _, r := range row {
				for bits := r - blank; bits != 0; bits &= bits - 1 {
					n++
				}
			}
		}
		return n
	}

	solid := NewCanvas(20, 1, 1)
	solid.Line(0, 0, 39, 0, 1)
	faint := NewCanvas(20, 1, 1)
	faint.Line(0, 0, 39, 0, 0.25)

	if got := count(solid); got != 40 {
		t.Errorf("expected 40 dots at full opacity, got %d", got)
	}
	got := count(faint)
	if got < 8 || got > 12 {
		t.Errorf("expected about 10 dots at quarter opacity, got %d", got)
	}
	if solid.Level(0, 0) != lineLevel {
		t.Errorf("expected strong line level, got %d", solid.Level(0, 0))
	}
	if faint.Level(4, 0) != 1 {
		t.Errorf("expected faint line level, got %d", faint.Level(4, 0))
	}

	none := NewCanvas(5, 1, 1)
	none.Line(0, 0, 9, 0, 0)
	if count(none) != 0 {
		t.Error("expected zero opacity to draw nothing")
	}
}

func TestCanvasParticleOverridesLine(t *testing.T) {
	c := NewCanvas(4, 1, 1)
	c.Line(0, 0, 7, 0, 0.2)
	c.Circle(1, 1, 0.1)
	if c.Level(0, 0) != maxLevel {
		t.Errorf("expected brightest level to win, got %d", c.Level(0, 0))
	}
}

func TestCanvasAsSurface(t *testing.T) {
	c := NewCanvas(30, 10, 0.5)
	f := particle.New(particle.WithSeed(1))
	f.Resize(c.Bounds())
	f.SetParticles([]particle.Particle{
		{X: 10, Y: 10, Radius: 2},
		{X: 40, Y: 10, Radius: 2},
	})
	if links := f.Render(c); links != 1 {
		t.Fatalf("expected one link, got %d", links)
	}
	if c.Level(6, 1) != lineLevel {
		t.Errorf("expected the link to light cell (6,1), got level %d", c.Level(6, 1))
	}
	if c.Level(2, 1) != maxLevel {
		t.Errorf("expected a particle in cell (2,1), got level %d", c.Level(2, 1))
	}
}

func TestCanvasRenderShape(t *testing.T) {
	c := NewCanvas(6, 3, 1)
	c.Circle(5, 5, 2)
	out := c.Render(PaletteDark)
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected 2 newlines, got %d", got)
	}
	if s := c.String(); strings.Count(s, "\n") != 3 {
		t.Errorf("expected plain string to end every row with a newline")
	}
}

func TestCanvasZeroSize(t *testing.T) {
	c := NewCanvas(0, 0, 1)
	c.Circle(1, 1, 3)
	c.Line(0, 0, 10, 10, 1)
	if c.Render(PaletteLight) != "" || c.String() != "" {
		t.Error("expected empty output for an empty canvas")
	}
}
