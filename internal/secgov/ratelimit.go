package secgov

import (
	"sync"
	"time"
)

// rateWindow is the trailing interval the limiter accounts against.
const rateWindow = time.Second

// RateLimiter bounds outbound requests with a sliding window: across all
// callers combined, no trailing one-second window ever contains more than
// Ceiling admissions. Waiters are not admitted in FIFO order; any waiting
// caller may proceed once capacity frees.
type RateLimiter struct {
	// Ceiling is the maximum number of admissions per trailing window.
	Ceiling int
	// Clock and Sleep are overridable for tests.
	Clock func() time.Time
	Sleep func(time.Duration)

	mu     sync.Mutex
	stamps []time.Time
}

// NewRateLimiter returns a limiter for the given requests-per-second
// ceiling. Ceilings below one are raised to one.
func NewRateLimiter(ceiling int) *RateLimiter {
	if ceiling < 1 {
		ceiling = 1
	}
	return &RateLimiter{Ceiling: ceiling}
}

// Admit blocks until issuing one more request stays within the ceiling,
// then records the admission and returns. It always eventually returns;
// there is no error or cancellation path.
func (l *RateLimiter) Admit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purge(now)

	if len(l.stamps) >= l.Ceiling {
		wait := rateWindow - now.Sub(l.stamps[0])
		if wait > 0 {
			l.sleep(wait)
			now = l.now()
			l.purge(now)
		}
	}

	l.stamps = append(l.stamps, now)
}

// purge drops timestamps that have fallen out of the trailing window.
// Callers must hold l.mu.
func (l *RateLimiter) purge(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}

func (l *RateLimiter) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}

func (l *RateLimiter) sleep(d time.Duration) {
	if l.Sleep != nil {
		l.Sleep(d)
		return
	}
	time.Sleep(d)
}
