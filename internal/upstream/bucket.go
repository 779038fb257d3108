// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package upstream

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/soundcheckhq/soundcheck/internal/metrics"
)

// TokenBucket throttles calls to one upstream. Tokens refill continuously at
// the configured per-second rate and never exceed capacity; a Wait with
// insufficient tokens suspends the caller until enough accumulate.
//
// Safe for concurrent use: the underlying limiter serializes reservations,
// so concurrent waiters cannot double-spend tokens.
type TokenBucket struct {
	api     string
	limiter *rate.Limiter
}

// NewTokenBucket creates a bucket holding at most capacity tokens, refilled
// at refillPerSec tokens per second.
func NewTokenBucket(api string, capacity int, refillPerSec float64) *TokenBucket {
	return &TokenBucket{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(refillPerSec), capacity),
	}
}

// Wait consumes one token, blocking until it is available or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	return b.WaitN(ctx, 1)
}

// WaitN consumes n tokens, blocking until they are available or ctx is done.
func (b *TokenBucket) WaitN(ctx context.Context, n int) error {
	start := time.Now()
	err := b.limiter.WaitN(ctx, n)
	metrics.UpstreamRateLimitWait.WithLabelValues(b.api).Observe(time.Since(start).Seconds())
	return err
}

// Tokens returns the number of tokens currently available, clamped to
// [0, capacity] so observers never see an overdraft.
func (b *TokenBucket) Tokens() float64 {
	t := b.limiter.Tokens()
	if t < 0 {
		return 0
	}
	if cap := float64(b.limiter.Burst()); t > cap {
		return cap
	}
	return t
}

// Capacity returns the bucket's maximum token count.
func (b *TokenBucket) Capacity() int {
	return b.limiter.Burst()
}
