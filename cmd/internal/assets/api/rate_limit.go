package assetsapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// attemptLimiter is a per-key sliding-window limiter for password attempts.
type attemptLimiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
}

func newAttemptLimiter(limit int, window time.Duration) *attemptLimiter {
	if limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Allow records an attempt for key at now. When the window is full it
// returns false and how long until the oldest attempt leaves the window.
func (l *attemptLimiter) Allow(key string, now time.Time) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := trimWindow(l.events[key], now.Add(-l.window))
	if len(kept) >= l.limit {
		l.events[key] = kept
		return false, kept[0].Add(l.window).Sub(now)
	}
	l.events[key] = append(kept, now)
	return true, 0
}

// Prune drops keys with no attempts inside the window.
func (l *attemptLimiter) Prune(now time.Time) int {
	if l == nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	n := 0
	for key, evs := range l.events {
		kept := trimWindow(evs, cut)
		if len(kept) == 0 {
			delete(l.events, key)
			n++
			continue
		}
		l.events[key] = kept
	}
	return n
}

func trimWindow(evs []time.Time, cut time.Time) []time.Time {
	dst := evs[:0]
	for _, t := range evs {
		if t.After(cut) {
			dst = append(dst, t)
		}
	}
	return dst
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		secs := int64(retryAfter / time.Second)
		if retryAfter%time.Second != 0 {
			secs++
		}
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	writeAuthFailure(w, http.StatusTooManyRequests, "Too many attempts")
}
