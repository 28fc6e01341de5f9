package particle

import (
	"time"

	"github.com/san-kum/driftfield/internal/frame"
)

// Run starts the frame loop: every frame advances the field, renders it onto
// s and requests the next frame from sched. Starting a new loop replaces any
// loop already running. The returned func stops this loop only.
func (f *Field) Run(sched frame.Scheduler, s Surface) (stop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopLocked()
	f.gen++
	gen := f.gen
	f.sched = sched
	f.running = true
	f.handle = sched.Request(f.frameFunc(gen, s))

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen == gen {
			f.stopLocked()
		}
	}
}

// Stop cancels the pending frame. Once it returns no further Advance or
// Render happens from the loop. Must not be called from a Surface method.
func (f *Field) Stop() {
	f.mu.Lock()
	f.stopLocked()
	f.mu.Unlock()
}

func (f *Field) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Frames reports how many frames the loop has produced.
func (f *Field) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func (f *Field) stopLocked() {
	if !f.running {
		return
	}
	f.sched.Cancel(f.handle)
	f.running = false
	f.gen++
}

func (f *Field) frameFunc(gen uint64, s Surface) frame.Callback {
	return func(now time.Time) {
		f.mu.Lock()
		if !f.running || f.gen != gen {
			f.mu.Unlock()
			return
		}
		start := time.Now()
		f.advance()
		links := f.render(s)
		f.frames++
		st := FrameStats{Frame: f.frames, Links: links, Elapsed: time.Since(start), At: now}
		f.handle = f.sched.Request(f.frameFunc(gen, s))
		observers := f.observers
		f.mu.Unlock()

		for _, o := range observers {
			o.OnFrame(st)
		}
	}
}
