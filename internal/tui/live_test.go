package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/driftfield/internal/frame"
	"github.com/san-kum/driftfield/internal/particle"
)

func TestLiveRendererWritesFrame(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "drift", 10, 4, 1, nil)

	f := particle.New(particle.WithSeed(1))
	f.SetParticles([]particle.Particle{{X: 5, Y: 5, Radius: 1}})
	f.Resize(r.Bounds())
	f.AddObserver(r)

	sched := frame.NewManual()
	stop := f.Run(sched, r)
	defer stop()
	sched.Step(time.Now())

	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Errorf("expected frame to start with clear screen")
	}
	if !strings.Contains(out, "frame=1") {
		t.Errorf("expected frame counter in header, got %q", out)
	}
	if !strings.Contains(out, "links=0") {
		t.Errorf("expected zero links for a lone particle")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// header, rule, 4 canvas rows, rule
	if len(lines) != 7 {
		t.Errorf("expected 7 lines, got %d", len(lines))
	}
}

func TestLiveRendererCursor(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "x", 1, 1, 1, nil)
	r.Start()
	r.Stop()
	if buf.String() != hideCursor+showCursor {
		t.Errorf("unexpected cursor escapes %q", buf.String())
	}
}

func TestLiveRendererFPS(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "x", 2, 1, 1, nil)
	start := time.Now()
	for i := 0; i < 100; i++ {
		r.OnFrame(particle.FrameStats{Frame: uint64(i + 1), At: start.Add(time.Duration(i) * time.Second / 60)})
	}
	if r.fps < 55 || r.fps > 61 {
		t.Errorf("expected fps near 60, got %f", r.fps)
	}
}
