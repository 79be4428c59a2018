package secgov

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testClock advances only when the limiter sleeps, so admission timing is
// fully deterministic.
type testClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func TestRateLimiterUnderCeilingNeverSleeps(t *testing.T) {
	clock := newTestClock()
	limiter := NewRateLimiter(10)
	limiter.Clock = clock.Now
	limiter.Sleep = clock.Sleep

	for i := 0; i < 10; i++ {
		limiter.Admit()
	}

	require.Empty(t, clock.sleeps)
	require.Len(t, limiter.stamps, 10)
}

func TestRateLimiterThirdCallWaits(t *testing.T) {
	clock := newTestClock()
	start := clock.now
	limiter := NewRateLimiter(2)
	limiter.Clock = clock.Now
	limiter.Sleep = clock.Sleep

	limiter.Admit()
	limiter.Admit()
	require.Empty(t, clock.sleeps)

	limiter.Admit()
	require.Len(t, clock.sleeps, 1)
	require.Equal(t, time.Second, clock.sleeps[0])
	require.Equal(t, start.Add(time.Second), clock.now)
}

func TestRateLimiterWindowBoundHolds(t *testing.T) {
	clock := newTestClock()
	limiter := NewRateLimiter(3)
	limiter.Clock = clock.Now
	limiter.Sleep = clock.Sleep

	var admissions []time.Time
	for i := 0; i < 12; i++ {
		limiter.Admit()
		admissions = append(admissions, clock.now)
	}

	// No trailing one-second window, measured at completion times,
	// contains more than the ceiling.
	for i, end := range admissions {
		count := 0
		for _, at := range admissions[:i+1] {
			if end.Sub(at) < time.Second {
				count++
			}
		}
		require.LessOrEqual(t, count, 3, "window ending at admission %d", i)
	}
}

func TestRateLimiterPurgesAgedStamps(t *testing.T) {
	clock := newTestClock()
	limiter := NewRateLimiter(2)
	limiter.Clock = clock.Now
	limiter.Sleep = clock.Sleep

	limiter.Admit()
	limiter.Admit()

	clock.now = clock.now.Add(2 * time.Second)

	limiter.Admit()
	require.Empty(t, clock.sleeps)
	require.Len(t, limiter.stamps, 1)
}

func TestNewRateLimiterRaisesZeroCeiling(t *testing.T) {
	limiter := NewRateLimiter(0)
	require.Equal(t, 1, limiter.Ceiling)
}
