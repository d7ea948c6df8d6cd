// Package ratelimit provides an in-memory sliding-window limiter used as a
// cheap local pre-check in front of the authoritative database-backed
// limiter. The two never share state.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter counts events per key inside a trailing window.
type Limiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
}

// New constructs a Limiter with safe defaults when inputs are invalid.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &Limiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether an event for key at time "now" should be permitted.
func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	kept := l.events[key][:0]
	for _, t := range l.events[key] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false
	}
	l.events[key] = append(kept, now)
	return true
}

// Sweep drops keys with no events inside the window.
func (l *Limiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	for key, events := range l.events {
		stale := true
		for _, t := range events {
			if t.After(cut) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.events, key)
		}
	}
}
