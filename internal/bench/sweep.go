package bench

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/driftfield/internal/particle"
)

// SweepResult is one point of a sweep.
type SweepResult struct {
	Count   int
	Summary Summary
}

// Sweep benches each particle count in parallel, at most GOMAXPROCS at a
// time. newSurface gives every run its own surface; nil renders to nowhere.
// The first failing run cancels the rest.
func Sweep(ctx context.Context, counts []int, opts Options, newSurface func(particle.Bounds) particle.Surface) ([]SweepResult, error) {
	results := make([]SweepResult, len(counts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range counts {
		g.Go(func() error {
			o := opts
			o.Count = n
			var s particle.Surface
			if newSurface != nil {
				s = newSurface(o.Bounds)
			}
			res, err := Run(gctx, o, s)
			if err != nil {
				return err
			}
			results[i] = SweepResult{Count: n, Summary: res.Summary}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
