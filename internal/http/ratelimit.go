package http

import (
	"sync"
	"time"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 60
)

// rateLimiter tracks request timestamps per client IP over a sliding
// window.
type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow records a request for ip and reports whether it fits the window.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	kept := rl.requests[ip][:0]
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rateLimitRequests {
		rl.requests[ip] = kept
		return false
	}

	rl.requests[ip] = append(kept, now)
	return true
}

// cleanupLoop drops IPs with no recent requests so the map cannot grow
// without bound.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rateLimitWindow)
			for ip, times := range rl.requests {
				active := false
				for _, t := range times {
					if t.After(cutoff) {
						active = true
						break
					}
				}
				if !active {
					delete(rl.requests, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}
