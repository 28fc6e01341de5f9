// Package tui draws the particle field straight to a terminal with ANSI
// escapes, without taking over input. It backs the plain run command.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/driftfield/internal/particle"
	"github.com/san-kum/driftfield/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is both the Surface the field draws onto and the Observer that
// flushes each finished frame to out.
type LiveRenderer struct {
	*viz.Canvas

	mu      sync.Mutex
	out     io.Writer
	title   string
	palette *viz.Palette
	fps     float64
	last    time.Time
}

var (
	_ particle.Surface  = (*LiveRenderer)(nil)
	_ particle.Observer = (*LiveRenderer)(nil)
)

// NewLiveRenderer draws into a cols x rows braille area. A nil palette writes
// plain braille without colour.
func NewLiveRenderer(out io.Writer, title string, cols, rows int, scale float64, palette *viz.Palette) *LiveRenderer {
	return &LiveRenderer{
		Canvas:  viz.NewCanvas(cols, rows, scale),
		out:     out,
		title:   title,
		palette: palette,
	}
}

func (r *LiveRenderer) OnFrame(st particle.FrameStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.last.IsZero() {
		if dt := st.At.Sub(r.last).Seconds(); dt > 0 {
			r.fps = 0.9*r.fps + 0.1/dt
		}
	}
	r.last = st.At

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  frame=%d links=%d fps=%.0f\n", r.title, st.Frame, st.Links, r.fps)
	b.WriteString("  " + strings.Repeat("-", r.Width) + "\n")

	var body string
	if r.palette != nil {
		body = r.Canvas.Render(*r.palette)
	} else {
		body = strings.TrimSuffix(r.Canvas.String(), "\n")
	}
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.Width) + "\n")

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
