package effects

const (
	DefaultParallaxSpeed = 0.5
	DefaultTiltAmplitude = 20.0
)

// Offset is how far a layer moving at speed shifts for a scroll distance.
// Zero speed uses DefaultParallaxSpeed.
func Offset(scrolled, speed float64) float64 {
	if speed == 0 {
		speed = DefaultParallaxSpeed
	}
	return -(scrolled * speed)
}

// Tilt maps a pointer coordinate within extent to a shift in
// [-amplitude/2, amplitude/2], zero at the centre.
func Tilt(pointer, extent, amplitude float64) float64 {
	if extent <= 0 {
		return 0
	}
	return (pointer/extent - 0.5) * amplitude
}
