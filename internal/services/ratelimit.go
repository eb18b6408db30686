package services

import (
	"sync"
	"time"
)

type ipBucket struct {
	count   int
	resetAt time.Time
}

// IPRateLimiter is a fixed-window counter keyed by client IP. A request of
// weight w consumes w slots from the current window; windows reset lazily on
// the next request after expiry. Expired buckets for idle IPs are swept
// opportunistically so the map does not grow without bound.
type IPRateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	buckets   map[string]*ipBucket
	lastSweep time.Time

	now func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*ipBucket),
		now:     time.Now,
	}
}

// Allow reports whether a request of the given weight fits in the current
// window for ip, consuming the slots when it does. A non-positive limit
// disables the limiter. A weight above the whole limit can never pass and is
// rejected without starting a window.
func (l *IPRateLimiter) Allow(ip string, weight int) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	if weight <= 0 {
		weight = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	b := l.buckets[ip]
	if b == nil || !now.Before(b.resetAt) {
		if weight > l.limit {
			return false
		}
		l.buckets[ip] = &ipBucket{count: weight, resetAt: now.Add(l.window)}
		return true
	}
	if b.count+weight > l.limit {
		return false
	}
	b.count += weight
	return true
}

func (l *IPRateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for ip, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, ip)
		}
	}
}

// Size returns the number of tracked IPs, expired buckets included.
func (l *IPRateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
