package frame

import (
	"sync"
	"time"
)

const DefaultFPS = 60

// Ticker fires pending callbacks on a wall-clock cadence from a single
// goroutine. Close must be called to release that goroutine.
type Ticker struct {
	q        queue
	interval time.Duration
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewTicker starts a scheduler at fps frames per second. Non-positive fps
// falls back to DefaultFPS.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	t := &Ticker{
		interval: time.Second / time.Duration(fps),
		done:     make(chan struct{}),
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

func (t *Ticker) Request(cb Callback) Handle { return t.q.request(cb) }
func (t *Ticker) Cancel(h Handle)            { t.q.cancel(h) }

// Interval is the time between frames.
func (t *Ticker) Interval() time.Duration { return t.interval }

func (t *Ticker) loop() {
	defer t.wg.Done()
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-t.done:
			return
		case now := <-tk.C:
			t.q.flush(now)
		}
	}
}

// Close stops the ticker goroutine and waits for an in-flight frame to finish.
// Callbacks still pending are dropped. Must not be called from a callback.
func (t *Ticker) Close() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}
