// Package resettimer provides a one-shot timer whose Reset and Stop are
// serialized against firing, so a callback never runs after Stop has
// returned true.
//
// Typical usage:
//
//	t := resettimer.After(30*time.Second, onExpiry)
//	// each new event pushes the deadline back
//	t.Reset(30 * time.Second)
//	// terminal path disarms it
//	if t.Stop() {
//	    // onExpiry is guaranteed not to run
//	}
//
// The package is intentionally minimal: no tickers, no pools, no context
// plumbing. Callers that race a timer against other events should still
// gate their callback on their own state, since Stop returns false when
// the callback has already begun.
package resettimer

import (
	"sync"
	"time"
)

// Timer is a resettable one-shot timer.
type Timer struct {
	mu      sync.Mutex
	fn      func()
	inner   *time.Timer
	gen     int
	fired   bool
	stopped bool
}

// After arms a new timer that invokes fn once d elapses.
// fn runs in its own goroutine.
func After(d time.Duration, fn func()) *Timer {
	t := &Timer{fn: fn}
	t.arm(d)
	return t
}

// arm schedules generation gen+1. Caller must not hold t.mu.
func (t *Timer) arm(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	t.inner = time.AfterFunc(d, func() { t.fire(gen) })
}

func (t *Timer) fire(gen int) {
	t.mu.Lock()
	if t.stopped || t.fired || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()

	t.fn()
}

// Reset pushes the deadline back to d from now. It reports whether the
// timer was still pending; a timer that already fired or was stopped is
// not re-armed.
func (t *Timer) Reset(d time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.inner.Stop()
	t.gen++
	gen := t.gen
	t.inner = time.AfterFunc(d, func() { t.fire(gen) })
	return true
}

// Stop disarms the timer. It reports whether the callback was prevented
// from running: false means the callback has already started (or
// finished), and the caller must resolve the race through its own state.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true
	t.inner.Stop()
	return true
}
