package effects

import (
	"math"
	"time"
)

const (
	// FrameStep is the nominal frame length counters are paced against.
	FrameStep = 16 * time.Millisecond

	DefaultCounterDuration = 2 * time.Second
)

// Counter climbs from zero to a target over roughly duration, one increment
// per Step.
type Counter struct {
	target    int
	increment float64
	current   float64
	started   bool
	done      bool
}

func NewCounter(target int, duration time.Duration) *Counter {
	if duration <= 0 {
		duration = DefaultCounterDuration
	}
	frames := float64(duration) / float64(FrameStep)
	return &Counter{target: target, increment: float64(target) / frames}
}

// Start begins counting and takes the first step at once.
func (c *Counter) Start() {
	if c.started {
		return
	}
	c.started = true
	c.Step()
}

// Step advances one frame. It does nothing before Start or after the target
// is reached.
func (c *Counter) Step() {
	if !c.started || c.done {
		return
	}
	c.current += c.increment
	if c.current >= float64(c.target) || c.increment <= 0 {
		c.current = float64(c.target)
		c.done = true
	}
}

// Value is the number to display: rounded up while counting, exact at the end.
func (c *Counter) Value() int {
	if c.done {
		return c.target
	}
	return int(math.Ceil(c.current))
}

// Retarget keeps the counter finished but pointed at a new value, for stats
// that change after the animation has played.
func (c *Counter) Retarget(target int) {
	c.target = target
	if c.done {
		c.current = float64(target)
	}
}

func (c *Counter) Started() bool { return c.started }
func (c *Counter) Done() bool    { return c.done }
