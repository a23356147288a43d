package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window permit gate shared by all outbound calls to one
// external service. The window grants a fixed number of permits; crossing the
// window boundary restores the full capacity at once. One permit per Acquire.
type Limiter struct {
	mu          sync.Mutex
	capacity    int
	window      time.Duration
	used        int
	windowStart time.Time

	// now is swappable in tests.
	now func() time.Time
}

// New creates a limiter granting capacity permits per window. A capacity or
// window of zero or less is normalized to the smallest useful value.
func New(capacity int, window time.Duration) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &Limiter{
		capacity: capacity,
		window:   window,
		now:      time.Now,
	}
}

// Acquire consumes one permit. With blocking=false it returns immediately,
// true only if a permit was available. With blocking=true the caller sleeps
// until the window rolls over and a permit frees up, or until timeout elapses
// (timeout <= 0 means wait indefinitely). Safe for concurrent callers.
func (l *Limiter) Acquire(blocking bool, timeout time.Duration) bool {
	var deadline time.Time
	if blocking && timeout > 0 {
		deadline = l.now().Add(timeout)
	}

	for {
		l.mu.Lock()
		now := l.now()
		if l.windowStart.IsZero() || !now.Before(l.windowStart.Add(l.window)) {
			l.windowStart = now
			l.used = 0
		}
		if l.used < l.capacity {
			l.used++
			l.mu.Unlock()
			return true
		}
		next := l.windowStart.Add(l.window)
		l.mu.Unlock()

		if !blocking {
			return false
		}

		wait := next.Sub(now)
		if !deadline.IsZero() {
			remaining := deadline.Sub(now)
			if remaining <= 0 || wait > remaining {
				return false
			}
		}
		if wait > 0 {
			time.Sleep(wait)
		}
	}
}

// Reset discards all window state, restoring full capacity immediately.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.used = 0
	l.windowStart = time.Time{}
}

// Capacity returns the permits granted per window.
func (l *Limiter) Capacity() int { return l.capacity }

// Window returns the replenishment window.
func (l *Limiter) Window() time.Duration { return l.window }
