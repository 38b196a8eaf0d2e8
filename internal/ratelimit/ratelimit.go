package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter caps request volume per client key within a time window.
//
// It is injected rather than module-level state so deployments running more
// than one instance can swap the process-local implementation for a shared
// store (see RedisLimiter).
type Limiter interface {
	// Allow reports whether the request identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)
}

// windowEntry tracks one client's fixed window.
type windowEntry struct {
	start time.Time
	count int
}

// MemoryLimiter is a process-local fixed-window limiter. It permits at most
// `requests` per `window` per key; the window resets once it has fully
// elapsed. Counts are lost on restart and not shared across instances, so
// this is an abuse deterrent, not a correctness guarantee.
type MemoryLimiter struct {
	mu       sync.Mutex
	windows  map[string]*windowEntry
	requests int
	window   time.Duration
	lastReap time.Time

	now func() time.Time // test hook
}

// NewMemoryLimiter creates a MemoryLimiter.
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows:  make(map[string]*windowEntry),
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.reap(now)

	e, ok := l.windows[key]
	if !ok || now.Sub(e.start) >= l.window {
		e = &windowEntry{start: now}
		l.windows[key] = e
	}

	e.count++
	return e.count <= l.requests, nil
}

// reap drops expired windows so the map does not grow without bound. It
// runs at most once per window; inactive keys linger no longer than two
// windows.
func (l *MemoryLimiter) reap(now time.Time) {
	if now.Sub(l.lastReap) < l.window {
		return
	}
	l.lastReap = now

	for key, e := range l.windows {
		if now.Sub(e.start) >= l.window {
			delete(l.windows, key)
		}
	}
}
