package frame

import (
	"sync"
	"time"
)

// Handle identifies a requested frame callback.
type Handle uint64

// Callback runs once when its frame fires.
type Callback func(now time.Time)

// Scheduler hands out one-shot per-frame callbacks.
type Scheduler interface {
	Request(cb Callback) Handle
	Cancel(h Handle)
}

// queue holds pending callbacks in request order. It never calls a callback
// while holding its lock, so callbacks may request or cancel freely.
type queue struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]Callback
	order   []Handle
}

func (q *queue) request(cb Callback) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[Handle]Callback)
	}
	q.next++
	h := q.next
	q.pending[h] = cb
	q.order = append(q.order, h)
	return h
}

func (q *queue) cancel(h Handle) {
	q.mu.Lock()
	delete(q.pending, h)
	q.mu.Unlock()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// flush fires everything pending at call time. Callbacks requested while
// flushing wait for the next flush.
func (q *queue) flush(now time.Time) int {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	q.mu.Unlock()

	fired := 0
	for _, h := range batch {
		q.mu.Lock()
		cb, ok := q.pending[h]
		delete(q.pending, h)
		q.mu.Unlock()
		if !ok {
			continue
		}
		cb(now)
		fired++
	}
	return fired
}
