// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package services

import (
	"context"
	"testing"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/cache"
)

func TestSweepRemovesExpiredEntries(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	identity := cache.New(time.Hour, cache.WithClock(clock))
	concerts := cache.New(6*time.Hour, cache.WithClock(clock))

	identity.Set("resolved:radiohead", "a")
	identity.Set("resolved:portishead", "b")
	concerts.Set("concerts:artist:radiohead", "c")

	j := NewCacheJanitor(map[string]*cache.Cache{
		"identity": identity,
		"concerts": concerts,
	}, time.Minute)

	if removed := j.Sweep(); removed != 0 {
		t.Errorf("Sweep() = %d before expiry, want 0", removed)
	}

	now = now.Add(2 * time.Hour)
	if removed := j.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d after identity TTL, want 2", removed)
	}
	if identity.Len() != 0 {
		t.Errorf("identity cache has %d entries, want 0", identity.Len())
	}
	if concerts.Len() != 1 {
		t.Errorf("concerts cache has %d entries, want 1", concerts.Len())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	j := NewCacheJanitor(map[string]*cache.Cache{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not stop after cancel")
	}
}

func TestJanitorString(t *testing.T) {
	if got := NewCacheJanitor(nil, 0).String(); got != "cache-janitor" {
		t.Errorf("String() = %q", got)
	}
}
