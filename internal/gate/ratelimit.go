// ABOUTME: Monthly rate limiter with lazy calendar rollover.
// ABOUTME: Reservation never counts; only confirmed publishes increment the counter.
package gate

import (
	"github.com/hoshiko-bot/hoshiko/internal/clock"
	"github.com/hoshiko-bot/hoshiko/internal/models"
)

// RateLimiter enforces the monthly posting ceiling. The month rollover is
// lazy: it happens at the next check rather than on a timer.
type RateLimiter struct {
	ceiling int
	counter models.MonthlyCounter
	clock   clock.Clock
}

// NewRateLimiter creates a limiter seeded with the persisted counter. A nil
// clock uses the system clock.
func NewRateLimiter(ceiling int, counter models.MonthlyCounter, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.System
	}
	return &RateLimiter{
		ceiling: ceiling,
		counter: counter,
		clock:   clk,
	}
}

// TryReserve reports whether another post is allowed this month. A stale
// month key resets the counter to zero for the current month before the
// check. Denial never mutates the count.
func (r *RateLimiter) TryReserve() bool {
	key := models.MonthKey(r.clock())
	if r.counter.MonthKey != key {
		r.counter = models.MonthlyCounter{MonthKey: key, Count: 0}
	}
	return r.counter.Count < r.ceiling
}

// Confirm records one successfully published post and returns the counter
// snapshot the caller must persist. Call only after the publisher reported
// success.
func (r *RateLimiter) Confirm() models.MonthlyCounter {
	key := models.MonthKey(r.clock())
	if r.counter.MonthKey != key {
		r.counter = models.MonthlyCounter{MonthKey: key, Count: 0}
	}
	r.counter.Count++
	return r.counter
}

// Counter returns the current counter state.
func (r *RateLimiter) Counter() models.MonthlyCounter {
	return r.counter
}

// Ceiling returns the configured monthly maximum.
func (r *RateLimiter) Ceiling() int {
	return r.ceiling
}
