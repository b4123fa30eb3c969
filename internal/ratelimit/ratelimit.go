// Package ratelimit provides the token-bucket limiter the Unit Worker
// Pool (spec.md §4.3) uses to cap a unit's iteration rate at `limit`
// QPS across all of that unit's workers (never across units).
//
// Grounded on Outblock-flowindex's internal/api/ratelimit.go, which
// wraps golang.org/x/time/rate per client; here there is exactly one
// limiter per unit, shared by its `parallel` workers.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates iteration start at a fixed rate. A zero limit means
// unlimited: Wait returns immediately without ever blocking.
type Limiter struct {
	l *rate.Limiter
}

// New builds a Limiter admitting at most qps iterations per second.
// qps <= 0 means unlimited.
func New(qps int) *Limiter {
	if qps <= 0 {
		return &Limiter{}
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(qps), qps)}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}
