package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowExhaustion(t *testing.T) {
	w := New(3, time.Minute)

	assert.True(t, w.Allow())
	assert.True(t, w.Allow())
	assert.True(t, w.Allow())
	assert.False(t, w.Allow(), "fourth request should be rejected")
	assert.Equal(t, 0, w.Remaining())
}

func TestWindowResets(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := New(2, time.Minute)
	w.lastReset = base
	w.now = func() time.Time { return base }

	assert.True(t, w.Allow())
	assert.True(t, w.Allow())
	assert.False(t, w.Allow())

	// 30s in: still the same window
	w.now = func() time.Time { return base.Add(30 * time.Second) }
	assert.False(t, w.Allow())

	// past the window boundary: counter resets, burst allowed again
	w.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.True(t, w.Allow())
	assert.True(t, w.Allow())
	assert.False(t, w.Allow())
}

func TestWindowRemaining(t *testing.T) {
	w := New(5, time.Minute)

	assert.Equal(t, 5, w.Remaining())
	w.Allow()
	w.Allow()
	assert.Equal(t, 3, w.Remaining())
}

func TestWindowRetryAfter(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w := New(1, time.Minute)
	w.lastReset = base
	w.now = func() time.Time { return base.Add(40 * time.Second) }

	assert.Equal(t, 20*time.Second, w.RetryAfter())

	w.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.Equal(t, time.Duration(0), w.RetryAfter())
}

func TestWindowConcurrentAllow(t *testing.T) {
	w := New(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- w.Allow()
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count, "exactly the window size should be admitted")
}
