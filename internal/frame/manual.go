package frame

import "time"

// Manual fires frames only when stepped. Used by tests and the bench command
// so frame work runs deterministically on the caller's goroutine.
type Manual struct {
	q queue
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Request(cb Callback) Handle { return m.q.request(cb) }
func (m *Manual) Cancel(h Handle)            { m.q.cancel(h) }

// Step fires every callback pending when it is called and reports how many ran.
func (m *Manual) Step(now time.Time) int { return m.q.flush(now) }

// Pending reports the number of live, unfired requests.
func (m *Manual) Pending() int { return m.q.len() }
