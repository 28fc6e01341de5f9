// Package viz draws a particle field in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view with a side panel of counters and a link graph
//   - [Canvas]: Braille-based pixel canvas that the field renders onto
//   - [Palette]: dark and light colour schemes, persisted through prefs
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed particles
//	T     - Toggle dark/light theme
//	G     - Toggle GIF recording
//	C     - Toggle pointer trail
//	?     - Show help overlay
//
// # Recording
//
// The view can record the canvas as a GIF animation using the G key.
// Recordings are written to Options.GIFPath when recording stops.
package viz
