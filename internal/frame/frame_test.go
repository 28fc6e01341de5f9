package frame

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManualStepFiresPending(t *testing.T) {
	m := NewManual()
	var calls []int
	m.Request(func(time.Time) { calls = append(calls, 1) })
	m.Request(func(time.Time) { calls = append(calls, 2) })

	if m.Pending() != 2 {
		t.Fatalf("expected 2 pending, got %d", m.Pending())
	}
	if n := m.Step(time.Now()); n != 2 {
		t.Errorf("expected 2 fired, got %d", n)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("callbacks fired out of order: %v", calls)
	}
	if m.Pending() != 0 {
		t.Errorf("expected empty queue, got %d", m.Pending())
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	fired := false
	h := m.Request(func(time.Time) { fired = true })
	m.Cancel(h)

	if n := m.Step(time.Now()); n != 0 {
		t.Errorf("expected nothing fired, got %d", n)
	}
	if fired {
		t.Error("cancelled callback fired")
	}
}

func TestManualRequestDuringStepWaits(t *testing.T) {
	m := NewManual()
	count := 0
	var cb Callback
	cb = func(time.Time) {
		count++
		m.Request(cb)
	}
	m.Request(cb)

	for i := 0; i < 3; i++ {
		m.Step(time.Now())
	}
	if count != 3 {
		t.Errorf("expected one call per step, got %d", count)
	}
	if m.Pending() != 1 {
		t.Errorf("expected the re-request to be pending, got %d", m.Pending())
	}
}

func TestManualCancelFromSiblingCallback(t *testing.T) {
	m := NewManual()
	secondFired := false
	var second Handle
	m.Request(func(time.Time) { m.Cancel(second) })
	second = m.Request(func(time.Time) { secondFired = true })

	m.Step(time.Now())
	if secondFired {
		t.Error("callback cancelled earlier in the same step still fired")
	}
}

func TestTickerFiresAndCloses(t *testing.T) {
	tk := NewTicker(200)
	defer tk.Close()

	var n atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	var once sync.Once
	var cb Callback
	cb = func(time.Time) {
		if n.Add(1) >= 3 {
			once.Do(wg.Done)
			return
		}
		tk.Request(cb)
	}
	tk.Request(cb)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire three frames")
	}
}

func TestTickerCancelledNeverFires(t *testing.T) {
	tk := NewTicker(500)
	var fired atomic.Bool
	h := tk.Request(func(time.Time) { fired.Store(true) })
	tk.Cancel(h)

	time.Sleep(20 * time.Millisecond)
	tk.Close()
	if fired.Load() {
		t.Error("cancelled callback fired")
	}
}

func TestTickerDefaultFPS(t *testing.T) {
	tk := NewTicker(0)
	defer tk.Close()
	if tk.Interval() != time.Second/DefaultFPS {
		t.Errorf("expected default interval, got %v", tk.Interval())
	}
}

func TestTickerCloseIdempotent(t *testing.T) {
	tk := NewTicker(30)
	tk.Close()
	tk.Close()
}
