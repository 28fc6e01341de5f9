// Package particle implements the drifting particle field.
//
// A [Field] owns a fixed number of [Particle] values inside [Bounds]. Each
// frame every particle moves by its velocity and wraps toroidally, then the
// field is drawn onto a [Surface]: one circle per particle plus a line for
// every pair closer than [LinkDistance], faded by [LinkOpacity].
//
// The all-pairs scan is O(n²) per frame. That is fine for a few dozen
// particles; past about a hundred it wants spatial partitioning, which this
// package does not do.
//
// # Example
//
//	f := particle.New()
//	f.Initialize(particle.DefaultCount, particle.Bounds{Width: 640, Height: 384})
//	sched := frame.NewTicker(60)
//	defer sched.Close()
//	stop := f.Run(sched, canvas)
//	defer stop()
package particle
