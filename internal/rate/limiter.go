package rate

import (
	"sync"
	"time"
)

// IntervalLimiter admits at most one operation per MinInterval. A zero
// interval admits everything.
type IntervalLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
	now         func() time.Time
}

// NewInterval creates an [IntervalLimiter] with the given minimum spacing.
func NewInterval(minInterval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Allow reserves the next slot. Returns ErrRateLimited when the previous
// admitted operation is closer than the minimum interval.
func (l *IntervalLimiter) Allow() error {
	if l == nil || l.minInterval <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() && now.Sub(l.last) < l.minInterval {
		return ErrRateLimited
	}
	l.last = now
	return nil
}

// Reset forgets the last admitted operation, re-arming the limiter.
func (l *IntervalLimiter) Reset() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.last = time.Time{}
	l.mu.Unlock()
}
