// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpirationEvictsOnRead(t *testing.T) {
	clock := newFakeClock()
	c := New(1*time.Hour, WithClock(clock.Now))

	c.Set("key1", "value1")

	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	sizeBefore := c.Len()
	clock.Advance(2 * time.Hour)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if got := c.Len(); got != sizeBefore-1 {
		t.Errorf("Expected size to shrink from %d to %d after expired read, got %d", sizeBefore, sizeBefore-1, got)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(1*time.Hour, WithClock(clock.Now))

	c.SetWithTTL("short", "v", 1*time.Minute)
	c.Set("long", "v")

	clock.Advance(5 * time.Minute)

	if _, exists := c.Get("short"); exists {
		t.Error("Expected short-TTL entry to be expired")
	}
	if _, exists := c.Get("long"); !exists {
		t.Error("Expected default-TTL entry to survive")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}

	// Deleting an absent key is a no-op.
	c.Delete("missing")
}

func TestCacheClear(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Clear()

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d entries", c.Len())
	}
}

func TestCacheCleanup(t *testing.T) {
	clock := newFakeClock()
	c := New(1*time.Hour, WithClock(clock.Now))

	c.SetWithTTL("a", 1, 10*time.Minute)
	c.SetWithTTL("b", 2, 10*time.Minute)
	c.Set("c", 3)

	clock.Advance(30 * time.Minute)

	removed := c.Cleanup()
	if removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after cleanup, got %d", c.Len())
	}
	if removed = c.Cleanup(); removed != 0 {
		t.Errorf("Second Cleanup() = %d, want 0", removed)
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()

	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Expected 1 set, got %d", stats.Sets)
	}
	if stats.Size != 1 {
		t.Errorf("Expected size 1, got %d", stats.Size)
	}

	want := 2.0 / 3.0
	if stats.HitRate < want-0.001 || stats.HitRate > want+0.001 {
		t.Errorf("Expected hit rate around %.3f, got %.3f", want, stats.HitRate)
	}
}

func TestCacheStatsEmpty(t *testing.T) {
	c := New(1 * time.Minute)
	stats := c.GetStats()
	if stats.HitRate != 0 {
		t.Errorf("Expected hit rate 0 with no accesses, got %f", stats.HitRate)
	}
}

func TestCacheHas(t *testing.T) {
	clock := newFakeClock()
	c := New(1*time.Minute, WithClock(clock.Now))

	c.Set("key1", "value1")
	if !c.Has("key1") {
		t.Error("Expected Has(key1) to be true")
	}

	clock.Advance(2 * time.Minute)
	if c.Has("key1") {
		t.Error("Expected Has(key1) to be false after expiry")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(1 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Expected 10 entries, got %d", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	k1 := GenerateKey("search", map[string]interface{}{"name": "radiohead", "limit": 5})
	k2 := GenerateKey("search", map[string]interface{}{"name": "radiohead", "limit": 5})
	k3 := GenerateKey("search", map[string]interface{}{"name": "radiohead", "limit": 10})

	if k1 != k2 {
		t.Error("Expected identical params to produce identical keys")
	}
	if k1 == k3 {
		t.Error("Expected different params to produce different keys")
	}
}
