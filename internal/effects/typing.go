package effects

import "time"

const DefaultTypingSpeed = 100 * time.Millisecond

// Typewriter reveals text one rune per speed interval.
type Typewriter struct {
	text    []rune
	speed   time.Duration
	shown   int
	elapsed time.Duration
	started bool
}

func NewTypewriter(text string, speed time.Duration) *Typewriter {
	if speed <= 0 {
		speed = DefaultTypingSpeed
	}
	return &Typewriter{text: []rune(text), speed: speed}
}

// Start shows the first rune immediately.
func (t *Typewriter) Start() {
	if t.started {
		return
	}
	t.started = true
	if len(t.text) > 0 {
		t.shown = 1
	}
}

// Tick advances the clock by dt and reveals any runes that are due.
func (t *Typewriter) Tick(dt time.Duration) {
	if !t.started || t.Done() {
		return
	}
	t.elapsed += dt
	for t.elapsed >= t.speed && t.shown < len(t.text) {
		t.elapsed -= t.speed
		t.shown++
	}
}

func (t *Typewriter) Text() string { return string(t.text[:t.shown]) }
func (t *Typewriter) Done() bool   { return t.shown >= len(t.text) }
