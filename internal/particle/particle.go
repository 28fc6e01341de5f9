package particle

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/san-kum/driftfield/internal/frame"
)

const (
	// LinkDistance is the distance below which two particles are joined.
	LinkDistance = 100.0

	DefaultCount = 50

	minRadius = 1.0
	maxRadius = 4.0
	maxSpeed  = 0.5
)

type Particle struct {
	X, Y   float64
	Radius float64
	VX, VY float64
}

type Bounds struct {
	Width, Height float64
}

// Empty reports whether the bounds have no drawable area.
func (b Bounds) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// FrameStats describes one frame produced by Run.
type FrameStats struct {
	Frame   uint64
	Links   int
	Elapsed time.Duration
	At      time.Time
}

type Observer interface {
	OnFrame(st FrameStats)
}

// Field owns a fixed set of particles and the frame loop that moves them.
// All methods are safe to call from any goroutine; frame callbacks and direct
// calls are serialised on the field's lock.
type Field struct {
	mu        sync.Mutex
	particles []Particle
	bounds    Bounds
	rng       *rand.Rand
	observers []Observer

	sched   frame.Scheduler
	handle  frame.Handle
	running bool
	gen     uint64
	frames  uint64
}

type Option func(*Field)

// WithSeed makes initialization deterministic.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithRand draws initial positions and velocities from r. The field owns r
// afterwards.
func WithRand(r *rand.Rand) Option {
	return func(f *Field) { f.rng = r }
}

func New(opts ...Option) *Field {
	f := &Field{}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f
}

func (f *Field) AddObserver(o Observer) {
	f.mu.Lock()
	f.observers = append(f.observers, o)
	f.mu.Unlock()
}

// Initialize replaces the particle set with count randomly placed particles.
func (f *Field) Initialize(count int, b Bounds) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if count < 0 {
		count = 0
	}
	f.bounds = b
	f.particles = make([]Particle, count)
	for i := range f.particles {
		f.particles[i] = Particle{
			X:      f.rng.Float64() * b.Width,
			Y:      f.rng.Float64() * b.Height,
			Radius: minRadius + f.rng.Float64()*(maxRadius-minRadius),
			VX:     f.rng.Float64()*2*maxSpeed - maxSpeed,
			VY:     f.rng.Float64()*2*maxSpeed - maxSpeed,
		}
	}
}

// Advance moves every particle by its velocity and wraps it back into bounds.
func (f *Field) Advance() {
	f.mu.Lock()
	f.advance()
	f.mu.Unlock()
}

func (f *Field) advance() {
	for i := range f.particles {
		p := &f.particles[i]
		p.X = wrap(p.X+p.VX, f.bounds.Width)
		p.Y = wrap(p.Y+p.VY, f.bounds.Height)
	}
}

// wrap folds v into [0, size). Coordinates already in range are untouched;
// non-positive sizes leave v as is.
func wrap(v, size float64) float64 {
	if size <= 0 || (v >= 0 && v < size) {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}

// Render clears s, draws every particle and joins each pair closer than
// LinkDistance. It returns the number of lines drawn. A nil surface draws
// nothing.
func (f *Field) Render(s Surface) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.render(s)
}

func (f *Field) render(s Surface) int {
	if s == nil {
		return 0
	}
	s.Clear()
	for _, p := range f.particles {
		s.Circle(p.X, p.Y, p.Radius)
	}

	links := 0
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d >= LinkDistance {
				continue
			}
			s.Line(a.X, a.Y, b.X, b.Y, LinkOpacity(d))
			links++
		}
	}
	return links
}

// LinkOpacity fades linearly from 1 at distance 0 to 0 at LinkDistance.
func LinkOpacity(d float64) float64 {
	if d >= LinkDistance {
		return 0
	}
	if d <= 0 {
		return 1
	}
	return 1 - d/LinkDistance
}

// Resize changes the bounds only. Particles outside the new bounds are left
// where they are and get folded back by the next Advance.
func (f *Field) Resize(b Bounds) {
	f.mu.Lock()
	f.bounds = b
	f.mu.Unlock()
}

func (f *Field) Bounds() Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds
}

func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.particles)
}

// Particles returns a copy of the current particle set.
func (f *Field) Particles() []Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// SetParticles replaces the particle set with a copy of ps.
func (f *Field) SetParticles(ps []Particle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.particles = make([]Particle, len(ps))
	copy(f.particles, ps)
}
