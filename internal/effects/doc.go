// Package effects holds the small one-shot and pointer-driven effects that
// decorate the particle view: a viewport [Observer], animated [Counter]s, a
// [Typewriter] banner, a pointer [Trail], parallax helpers and a [Throttle].
//
// Nothing here owns a goroutine. Each effect is advanced by whoever drives
// the frames, usually the Bubble Tea tick.
package effects
