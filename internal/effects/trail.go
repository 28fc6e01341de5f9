package effects

const (
	DefaultTrailLength = 20
	trailEase          = 0.3
)

type Point struct {
	X, Y float64
}

// Trail is a chain of points chasing the pointer. Each frame the head jumps to
// the pointer and every following point is placed part of the way toward
// where its successor was.
type Trail struct {
	points []Point
	target Point
}

func NewTrail(n int) *Trail {
	if n <= 0 {
		n = DefaultTrailLength
	}
	return &Trail{points: make([]Point, n)}
}

// MoveTo sets the pointer position the trail chases.
func (t *Trail) MoveTo(x, y float64) { t.target = Point{X: x, Y: y} }

func (t *Trail) Step() {
	x, y := t.target.X, t.target.Y
	n := len(t.points)
	for i := range t.points {
		t.points[i] = Point{X: x, Y: y}
		next := t.points[(i+1)%n]
		x += (next.X - x) * trailEase
		y += (next.Y - y) * trailEase
	}
}

// Points returns a copy of the trail, head first.
func (t *Trail) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Scale is the size and opacity factor of point i: 1 at the head, fading
// toward the tail.
func (t *Trail) Scale(i int) float64 {
	n := len(t.points)
	if i < 0 || i >= n {
		return 0
	}
	return float64(n-i) / float64(n)
}

func (t *Trail) Len() int { return len(t.points) }
