package particle

// Surface is the drawing capability a Field renders onto. Coordinates are in
// field units; implementations clip anything outside their own area.
type Surface interface {
	Clear()
	Circle(x, y, r float64)
	// Line joins two points; opacity is in (0, 1].
	Line(x0, y0, x1, y1, opacity float64)
}
