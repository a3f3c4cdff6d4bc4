// Package ratelimit implements a fixed-window request counter keyed by an
// arbitrary string (typically a client IP). A window opens on the first hit
// for a key; all hits within the window share one counter. Once the counter
// reaches the limit, further hits inside the window are flagged limited with
// a retry-after duration; once the window elapses the record resets.
//
// The limiter is in-memory and single-process. Stale keys are never evicted,
// so memory grows with the number of distinct keys seen.
package ratelimit

import (
	"sync"
	"time"
)

type record struct {
	count       int
	windowStart time.Time
}

// Result reports the outcome of a single hit.
type Result struct {
	Limited    bool
	RetryAfter time.Duration
}

type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	records map[string]*record

	// now is a test seam.
	now func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Hit registers one request for key and reports whether it is allowed.
func (l *Limiter) Hit(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	r, ok := l.records[key]
	if !ok {
		l.records[key] = &record{count: 1, windowStart: now}
		return Result{}
	}

	elapsed := now.Sub(r.windowStart)
	if elapsed >= l.window {
		// Window expired; reset regardless of prior limited state.
		r.count = 1
		r.windowStart = now
		return Result{}
	}

	if r.count >= l.limit {
		return Result{Limited: true, RetryAfter: l.window - elapsed}
	}

	r.count++
	return Result{}
}
