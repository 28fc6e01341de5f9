// Package bench times the particle field frame by frame without a terminal.
package bench

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/driftfield/internal/frame"
	"github.com/san-kum/driftfield/internal/particle"
)

type Options struct {
	Count  int
	Frames int
	Bounds particle.Bounds
	Seed   uint64
}

type Summary struct {
	MeanLinks float64
	MaxLinks  int
	MeanFrame time.Duration
	P95Frame  time.Duration
	MaxFrame  time.Duration
}

// Metrics flattens the summary for run metadata.
func (s Summary) Metrics() map[string]float64 {
	return map[string]float64{
		"mean_links":    s.MeanLinks,
		"max_links":     float64(s.MaxLinks),
		"mean_frame_us": float64(s.MeanFrame.Microseconds()),
		"p95_frame_us":  float64(s.P95Frame.Microseconds()),
		"max_frame_us":  float64(s.MaxFrame.Microseconds()),
	}
}

type Result struct {
	Frames  []particle.FrameStats
	Summary Summary
}

type recorder struct {
	frames []particle.FrameStats
}

func (r *recorder) OnFrame(st particle.FrameStats) { r.frames = append(r.frames, st) }

// discard accepts draw calls and drops them.
type discard struct{}

func (discard) Clear()                     {}
func (discard) Circle(_, _, _ float64)     {}
func (discard) Line(_, _, _, _, _ float64) {}

// Run drives a fresh field through opts.Frames frames on a manual scheduler
// and returns the per-frame stats. A nil surface renders to nowhere.
func Run(ctx context.Context, opts Options, s particle.Surface) (*Result, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}
	if s == nil {
		s = discard{}
	}

	f := particle.New(particle.WithSeed(opts.Seed))
	f.Initialize(opts.Count, opts.Bounds)
	rec := &recorder{frames: make([]particle.FrameStats, 0, opts.Frames)}
	f.AddObserver(rec)

	sched := frame.NewManual()
	stop := f.Run(sched, s)
	defer stop()

	for i := 0; i < opts.Frames; i++ {
		select {
		case <-ctx.Done():
			return &Result{Frames: rec.frames, Summary: Summarize(rec.frames)}, ctx.Err()
		default:
		}
		sched.Step(time.Now())
	}
	return &Result{Frames: rec.frames, Summary: Summarize(rec.frames)}, nil
}

func Summarize(frames []particle.FrameStats) Summary {
	var s Summary
	if len(frames) == 0 {
		return s
	}

	elapsed := make([]time.Duration, len(frames))
	var totalLinks int
	var total time.Duration
	for i, f := range frames {
		elapsed[i] = f.Elapsed
		total += f.Elapsed
		totalLinks += f.Links
		if f.Links > s.MaxLinks {
			s.MaxLinks = f.Links
		}
	}
	sort.Slice(elapsed, func(i, j int) bool { return elapsed[i] < elapsed[j] })

	n := len(frames)
	s.MeanLinks = float64(totalLinks) / float64(n)
	s.MeanFrame = total / time.Duration(n)
	s.P95Frame = elapsed[(n*95-1)/100]
	s.MaxFrame = elapsed[n-1]
	return s
}
