// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
)

const (
	// DefaultMaxRetries is how many attempts a retryable failure gets before
	// the last error propagates.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the base for exponential backoff
	// (base * 2^attempt: 1s, 2s, 4s).
	DefaultBaseDelay = 1 * time.Second
)

// Retryer executes upstream operations with exponential-backoff retry.
//
// Retry policy:
//   - RateLimitedError (HTTP 429): wait Retry-After when the server sent one,
//     otherwise base * 2^attempt, then retry.
//   - UnavailableError (connection/timeout): wait base * 2^attempt, retry.
//   - Anything else: propagate immediately, no retry.
//   - After MaxRetries attempts the last error propagates.
//
// All waits are cancellable through the call's context.
type Retryer struct {
	API        string
	MaxRetries int
	BaseDelay  time.Duration
}

// NewRetryer creates a Retryer for the named upstream with the default
// policy (3 attempts, 1s base delay).
func NewRetryer(api string) *Retryer {
	return &Retryer{
		API:        api,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// Do runs fn, retrying per the policy above.
func (r *Retryer) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		delay, reason, retryable := r.classify(err, attempt)
		if !retryable {
			return err
		}

		// Last attempt used up, propagate without sleeping.
		if attempt == r.MaxRetries-1 {
			break
		}

		metrics.UpstreamRetriesTotal.WithLabelValues(r.API, reason).Inc()
		logging.Warn().
			Str("api", r.API).
			Str("reason", reason).
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", r.MaxRetries).
			Msg("Retrying upstream request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logging.Error().
		Str("api", r.API).
		Int("max_retries", r.MaxRetries).
		Err(lastErr).
		Msg("Upstream request failed after retries")
	return lastErr
}

// classify maps an error to its backoff delay and retryability.
func (r *Retryer) classify(err error, attempt int) (delay time.Duration, reason string, retryable bool) {
	backoff := r.BaseDelay * time.Duration(1<<uint(attempt))

	var rl *RateLimitedError
	if errors.As(err, &rl) {
		if rl.RetryAfter > 0 {
			return rl.RetryAfter, "rate_limited", true
		}
		return backoff, "rate_limited", true
	}

	var ua *UnavailableError
	if errors.As(err, &ua) {
		return backoff, "unavailable", true
	}

	return 0, "", false
}
