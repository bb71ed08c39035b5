// ABOUTME: Governor enforces the per-user queries-per-minute budget
// ABOUTME: Fixed 60-second window counter per user; a rate.Limiter smooths bursts
package core

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedError is returned when a user exceeds the query budget.
// Recoverable: the caller retries after RetryAfter.
type RateLimitedError struct {
	UserID     string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: user %s, retry after %s", e.UserID, e.RetryAfter.Round(time.Millisecond))
}

// userBudget is one user's window counter plus smoothing limiter.
type userBudget struct {
	windowStart time.Time
	count       int
	limiter     *rate.Limiter
}

// Governor tracks per-user query budgets. The budget is a fixed 60-second
// window: the first query opens the window, the (N+1)-th inside it is
// rejected, and the count resets when the window elapses. The counter is
// incremented and checked under one mutex. A token bucket on top caps the
// instantaneous rate across window boundaries.
type Governor struct {
	perMinute int
	now       func() time.Time

	mu    sync.Mutex
	users map[string]*userBudget
}

// NewGovernor creates a Governor allowing perMinute queries per user.
func NewGovernor(perMinute int) *Governor {
	return &Governor{
		perMinute: perMinute,
		now:       time.Now,
		users:     make(map[string]*userBudget),
	}
}

// Check consumes one unit of the user's budget, or returns a
// *RateLimitedError with a retry-after hint without consuming anything.
func (g *Governor) Check(userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		u = &userBudget{
			limiter: rate.NewLimiter(rate.Limit(float64(g.perMinute)/60.0), g.perMinute),
		}
		g.users[userID] = u
	}

	now := g.now()
	if now.Sub(u.windowStart) >= time.Minute {
		u.windowStart = now
		u.count = 0
	}

	// The window counter is the budget. It is checked before the limiter so
	// a rejected query consumes neither.
	if u.count >= g.perMinute {
		return &RateLimitedError{
			UserID:     userID,
			RetryAfter: u.windowStart.Add(time.Minute).Sub(now),
		}
	}

	r := u.limiter.ReserveN(now, 1)
	if !r.OK() {
		return &RateLimitedError{UserID: userID, RetryAfter: time.Minute}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return &RateLimitedError{UserID: userID, RetryAfter: delay}
	}

	u.count++
	return nil
}
