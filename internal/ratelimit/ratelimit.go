// Package ratelimit provides a fixed-window request counter. The
// window resets on the wall clock rather than refilling smoothly, so
// a burst immediately after a reset is allowed by design.
package ratelimit

import (
	"sync"
	"time"
)

// Window counts requests inside a fixed wall-clock window. It is an
// explicit value object injected into callers so the logic consuming
// it stays free of ambient mutable state. Safe for concurrent use.
type Window struct {
	mu        sync.Mutex
	max       int
	per       time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
}

// New creates a window allowing max requests per the given duration.
func New(max int, per time.Duration) *Window {
	return &Window{
		max:       max,
		per:       per,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Allow consumes one slot from the current window, resetting the
// counter first if the window has elapsed. It reports whether the
// request may proceed.
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetIfElapsed()
	if w.count >= w.max {
		return false
	}
	w.count++
	return true
}

// Remaining reports how many slots are left in the current window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetIfElapsed()
	return w.max - w.count
}

// RetryAfter reports how long until the current window resets.
func (w *Window) RetryAfter() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	elapsed := w.now().Sub(w.lastReset)
	if elapsed >= w.per {
		return 0
	}
	return w.per - elapsed
}

func (w *Window) resetIfElapsed() {
	if now := w.now(); now.Sub(w.lastReset) >= w.per {
		w.count = 0
		w.lastReset = now
	}
}
