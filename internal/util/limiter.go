package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter bounds how fast watch mode may re-analyze changed files, so an
// editor save storm or a branch switch cannot peg the CPU.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket limiter with r tokens per second and
// burst size b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Allow reports whether an event with weight n may happen now.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

// Wait blocks until n tokens are available.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	return l.inner.WaitN(ctx, n)
}
