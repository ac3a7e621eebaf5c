package thunderbolt

import (
	"sync"
	"time"
)

// SubscribeLimiter rate-limits newsletter signups per IP address over a
// sliding window.
type SubscribeLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscribeLimiter creates a SubscribeLimiter that allows max attempts per
// window. Close stops its cleanup goroutine.
func NewSubscribeLimiter(max int, window time.Duration) *SubscribeLimiter {
	l := &SubscribeLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *SubscribeLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}
		l.mu.Lock()
		for ip, hits := range l.attempts {
			if kept := l.prune(hits); len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// prune drops hits older than the window. Callers hold mu.
func (l *SubscribeLimiter) prune(hits []time.Time) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow reports whether ip is under the limit and, if so, records the attempt.
func (l *SubscribeLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.prune(l.attempts[ip])
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, l.now())
	return true
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (l *SubscribeLimiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
