// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package upstream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testRetryer() *Retryer {
	return &Retryer{
		API:        "test-api",
		MaxRetries: 3,
		BaseDelay:  1 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterRateLimits(t *testing.T) {
	calls := 0
	err := testRetryer().Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RateLimitedError{API: "test-api"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryNonRetryableCalledOnce(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := testRetryer().Do(context.Background(), func() error {
		calls++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	err := testRetryer().Do(context.Background(), func() error {
		calls++
		return &UnavailableError{API: "test-api", Err: errors.New("connection refused")}
	})

	var ua *UnavailableError
	if !errors.As(err, &ua) {
		t.Errorf("Do() error = %v, want UnavailableError", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := testRetryer().Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &RateLimitedError{API: "test-api", RetryAfter: 50 * time.Millisecond}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected at least 50ms delay from Retry-After, waited %v", elapsed)
	}
}

func TestRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Retryer{API: "test-api", MaxRetries: 3, BaseDelay: 10 * time.Second}
	calls := 0

	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, func() error {
			calls++
			return &UnavailableError{API: "test-api", Err: errors.New("timeout")}
		})
	}()

	// Let the first attempt land, then cancel during the backoff wait.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RateLimitedError{API: "x"}) {
		t.Error("RateLimitedError should be retryable")
	}
	if !IsRetryable(&UnavailableError{API: "x", Err: errors.New("refused")}) {
		t.Error("UnavailableError should be retryable")
	}
	if IsRetryable(errors.New("bad request")) {
		t.Error("plain errors should not be retryable")
	}
	if IsRetryable(&ConfigurationError{Msg: "no credentials"}) {
		t.Error("ConfigurationError should not be retryable")
	}
}
