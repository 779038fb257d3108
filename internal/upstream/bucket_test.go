// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package upstream

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTokenBucketImmediateConsume(t *testing.T) {
	b := NewTokenBucket("test", 5, 1)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := b.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Consuming burst capacity took %v, expected near-instant", elapsed)
	}
}

func TestTokenBucketDelaysWhenEmpty(t *testing.T) {
	// Capacity 1, 10 tokens/sec: second consume must wait ~100ms.
	b := NewTokenBucket("test", 1, 10)

	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	start := time.Now()
	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Second consume waited only %v, expected around 100ms", elapsed)
	}
}

func TestTokenBucketNeverNegative(t *testing.T) {
	b := NewTokenBucket("test", 2, 100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Wait(context.Background())
			if tokens := b.Tokens(); tokens < 0 {
				t.Errorf("Tokens() = %f, want >= 0", tokens)
			}
		}()
	}
	wg.Wait()

	if tokens := b.Tokens(); tokens < 0 || tokens > float64(b.Capacity()) {
		t.Errorf("Tokens() = %f, want within [0, %d]", tokens, b.Capacity())
	}
}

func TestTokenBucketContextCancel(t *testing.T) {
	b := NewTokenBucket("test", 1, 0.1) // 10s per token once drained

	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := b.Wait(ctx); err == nil {
		t.Error("Wait() = nil, want context deadline error")
	}
}

func TestTokenBucketCapacity(t *testing.T) {
	b := NewTokenBucket("test", 180, 3)
	if got := b.Capacity(); got != 180 {
		t.Errorf("Capacity() = %d, want 180", got)
	}
}
