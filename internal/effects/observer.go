package effects

// Rect is an axis-aligned area in terminal cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Area() int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the overlap of r and o, empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// VisibleRatio is the fraction of r inside viewport.
func VisibleRatio(r, viewport Rect) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return float64(r.Intersect(viewport).Area()) / float64(area)
}

type watch struct {
	id        string
	rect      Rect
	threshold float64
	fn        func()
}

// Observer fires a callback the first time a watched area becomes visible
// enough, then forgets it.
type Observer struct {
	watches []watch
}

// Observe watches r under id. fn runs once when at least threshold of r is
// inside the viewport passed to Check. Observing an existing id replaces it.
func (o *Observer) Observe(id string, r Rect, threshold float64, fn func()) {
	o.Unobserve(id)
	o.watches = append(o.watches, watch{id: id, rect: r, threshold: threshold, fn: fn})
}

// Move updates where a watched area is. Unknown ids are ignored.
func (o *Observer) Move(id string, r Rect) {
	for i := range o.watches {
		if o.watches[i].id == id {
			o.watches[i].rect = r
			return
		}
	}
}

func (o *Observer) Unobserve(id string) {
	for i := range o.watches {
		if o.watches[i].id == id {
			o.watches = append(o.watches[:i], o.watches[i+1:]...)
			return
		}
	}
}

// Len reports how many areas are still watched.
func (o *Observer) Len() int { return len(o.watches) }

// Check fires and drops every watch that is now visible and reports how many
// fired.
func (o *Observer) Check(viewport Rect) int {
	var fired []watch
	kept := o.watches[:0]
	for _, w := range o.watches {
		ratio := VisibleRatio(w.rect, viewport)
		if ratio > 0 && ratio >= w.threshold {
			fired = append(fired, w)
			continue
		}
		kept = append(kept, w)
	}
	o.watches = kept
	for _, w := range fired {
		w.fn()
	}
	return len(fired)
}
