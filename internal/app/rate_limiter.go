package app

import (
	"sync"
	"time"

	"github.com/dkeye/Polyglot/internal/domain"
)

// ClientRateLimiter is a sliding-window limiter keyed by client id. Preview
// requests go through it because each one costs three external API calls.
type ClientRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.ClientID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewClientRateLimiter(limit int, interval time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		history:  make(map[domain.ClientID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Allow records an attempt for id and reports whether it fits the window.
// A non-positive limit disables limiting.
func (rl *ClientRateLimiter) Allow(id domain.ClientID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	rl.history[id] = append(fresh, now)
	return true
}

// Sweep drops clients with no attempt inside the window.
func (rl *ClientRateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	windowStart := rl.now().Add(-rl.interval)
	for id, attempts := range rl.history {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(rl.history, id)
		}
	}
}
