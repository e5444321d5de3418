package entrez

import (
	"context"
	"sync"
	"time"
)

// limiter spaces requests at a fixed minimum interval. NCBI enforces the
// limit per API key (or per IP without one), so one limiter is shared by
// all requests of a Client regardless of worker count.
type limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// newLimiter creates a limiter allowing ratePerSec requests per second.
// A rate of 0 or less disables limiting.
func newLimiter(ratePerSec float64) *limiter {
	if ratePerSec <= 0 {
		return &limiter{}
	}
	return &limiter{interval: time.Duration(float64(time.Second) / ratePerSec)}
}

// wait blocks until the next request slot is available or ctx is done.
func (l *limiter) wait(ctx context.Context) error {
	if l.interval == 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.interval)
	l.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
