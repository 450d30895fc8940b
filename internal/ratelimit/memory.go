package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter.
// Entries live until the process exits; the key space is the set of QR codes.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// MemoryOption customises a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewMemoryLimiter returns an empty limiter.
func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check implements Limiter.
func (l *MemoryLimiter) Check(_ context.Context, key string, maxRequests int, win time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.windows[key]
	if !ok || now.After(entry.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(win)}
		return true
	}

	if entry.count >= maxRequests {
		return false
	}
	entry.count++
	return true
}

// RemainingTime implements Limiter.
func (l *MemoryLimiter) RemainingTime(_ context.Context, key string) int {
	now := l.now()

	l.mu.Lock()
	entry, ok := l.windows[key]
	var resetAt time.Time
	if ok {
		resetAt = entry.resetAt
	}
	l.mu.Unlock()

	if !ok {
		return 0
	}
	return secondsCeil(resetAt.Sub(now))
}
