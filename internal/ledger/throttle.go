package ledger

import (
	"context"
	"sync"
	"time"
)

// throttle spaces outgoing requests so the remote ledger's rate limit is
// never tripped. It is a simple token pacer: at most one request per
// interval, with Wait honoring context cancellation.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newThrottle(requestsPerMinute int) *throttle {
	if requestsPerMinute < 1 {
		requestsPerMinute = 60
	}
	return &throttle{interval: time.Minute / time.Duration(requestsPerMinute)}
}

// Wait blocks until the next request slot is available or ctx is done.
func (t *throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	next := t.last.Add(t.interval)
	if next.Before(now) {
		next = now
	}
	t.last = next
	t.mu.Unlock()

	delay := time.Until(next)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
