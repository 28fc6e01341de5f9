package effects

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle admits at most one event per interval and drops the rest.
type Throttle struct {
	lim *rate.Limiter
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *Throttle) Allow() bool { return t.lim.Allow() }

// AllowAt is Allow with an explicit clock.
func (t *Throttle) AllowAt(now time.Time) bool { return t.lim.AllowN(now, 1) }

// Wrap returns fn guarded by the throttle.
func (t *Throttle) Wrap(fn func()) func() {
	return func() {
		if t.Allow() {
			fn()
		}
	}
}

// Debouncer tags bursts of events with a generation so only the last one in a
// burst is acted on once its delay expires.
type Debouncer struct {
	gen uint64
}

// Bump records a new event and returns its generation.
func (d *Debouncer) Bump() uint64 {
	d.gen++
	return d.gen
}

// Settled reports whether gen is still the latest event.
func (d *Debouncer) Settled(gen uint64) bool { return gen == d.gen }
