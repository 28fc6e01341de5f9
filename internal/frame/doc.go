// Package frame schedules per-frame callbacks.
//
// A [Scheduler] hands out one-shot callbacks; a loop that wants to keep
// running re-requests itself from inside its callback, the same way a
// browser animation frame does. Two implementations are provided:
//
//   - [Ticker]: fires on a wall-clock cadence from one goroutine
//   - [Manual]: fires only when [Manual.Step] is called
//
// Neither scheduler holds its lock while a callback runs, so callbacks may
// request or cancel frames freely.
package frame
