// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package upstream provides the shared plumbing for outbound API calls:
// a token-bucket rate limiter per upstream, an exponential-backoff retry
// wrapper, and the error taxonomy the rest of the service branches on.
package upstream

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound signals that an upstream query returned no results for the
// requested entity. It is surfaced as a typed "not found" rather than a
// generic failure so callers can distinguish absence from outage.
var ErrNotFound = errors.New("not found")

// ConfigurationError is a fatal misconfiguration (for example missing API
// credentials). It is raised on first use of the affected upstream, never
// retried, and should abort the request that triggered it.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// RateLimitedError is an HTTP 429 from an upstream. RetryAfter carries the
// server-provided delay when the Retry-After header was present, zero
// otherwise. The retry wrapper handles it internally; callers only see it
// once retries are exhausted.
type RateLimitedError struct {
	API        string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited (retry after %s)", e.API, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.API)
}

// UnavailableError wraps connection and timeout class failures. These are
// retried with exponential backoff; any other error propagates immediately.
type UnavailableError struct {
	API string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: upstream unavailable: %v", e.API, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is in one of the two retryable classes.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	var ua *UnavailableError
	return errors.As(err, &rl) || errors.As(err, &ua)
}
