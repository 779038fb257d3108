// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package services contains supervised service wrappers for components
// that are not services themselves.
package services

import (
	"context"
	"sort"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
)

// CacheJanitor eagerly sweeps expired entries from the domain caches.
// The caches evict lazily on read; without the janitor, keys that are
// never read again would pin memory forever.
type CacheJanitor struct {
	caches   map[string]*cache.Cache
	interval time.Duration
}

// NewCacheJanitor creates a janitor over the named domain caches.
// Interval <= 0 defaults to 15 minutes.
func NewCacheJanitor(caches map[string]*cache.Cache, interval time.Duration) *CacheJanitor {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CacheJanitor{
		caches:   caches,
		interval: interval,
	}
}

// Serve implements suture.Service, sweeping every interval until ctx is
// canceled.
func (j *CacheJanitor) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", j.interval).
		Int("caches", len(j.caches)).
		Msg("Cache janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep removes expired entries from every cache once and refreshes the
// per-domain gauges. Returns the total number of entries removed.
func (j *CacheJanitor) Sweep() int {
	total := 0
	for _, domain := range j.domains() {
		c := j.caches[domain]
		removed := c.Cleanup()
		total += removed

		metrics.CacheCleanupRemoved.WithLabelValues(domain).Add(float64(removed))
		metrics.CacheEntries.WithLabelValues(domain).Set(float64(c.Len()))

		if removed > 0 {
			logging.Debug().
				Str("domain", domain).
				Int("removed", removed).
				Int("remaining", c.Len()).
				Msg("Swept expired cache entries")
		}
	}
	return total
}

// String implements fmt.Stringer for supervisor logging.
func (j *CacheJanitor) String() string {
	return "cache-janitor"
}

// domains returns cache names in stable order so logs and metrics
// updates are deterministic.
func (j *CacheJanitor) domains() []string {
	names := make([]string, 0, len(j.caches))
	for name := range j.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
