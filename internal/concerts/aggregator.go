// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package concerts aggregates upcoming events across ticketing sources.
// Aggregation is best-effort: a failing source degrades to an empty
// result with a warning, never an error, because concert data is
// supplementary to artist resolution.
package concerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/ticketmaster"
)

// Aggregator fans queries out to ticketing sources and caches the
// combined results. Today Ticketmaster is the only source; the
// EventSource interface keeps the door open for more.
type Aggregator struct {
	source   ticketmaster.EventSource
	cache    *cache.Cache
	cacheTTL time.Duration
}

// New creates an Aggregator. cacheTTL <= 0 defaults to six hours,
// matching how fast ticketing inventories actually change.
func New(source ticketmaster.EventSource, store *cache.Cache, cacheTTL time.Duration) *Aggregator {
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}
	return &Aggregator{
		source:   source,
		cache:    store,
		cacheTTL: cacheTTL,
	}
}

// GetArtistConcerts returns upcoming events for an artist. Never
// returns an error: source failures are logged and yield an empty
// slice so callers (the API and the alert sweep) degrade gracefully.
func (a *Aggregator) GetArtistConcerts(ctx context.Context, artistName string) []models.NormalizedEvent {
	cacheKey := "concerts:artist:" + strings.ToLower(artistName)
	if cached, ok := a.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("concerts").Inc()
		return cached.([]models.NormalizedEvent)
	}
	metrics.CacheMissesTotal.WithLabelValues("concerts").Inc()

	events, err := a.source.SearchEvents(ctx, artistName, "", "")
	if err != nil {
		logging.Warn().Err(err).Str("artist", artistName).Msg("Concert lookup failed, returning empty result")
		return []models.NormalizedEvent{}
	}

	a.cache.SetWithTTL(cacheKey, events, a.cacheTTL)
	return events
}

// GetConcertsByLocation returns upcoming events in a city. The country
// is an optional ISO code narrowing the search. Same degradation
// contract as GetArtistConcerts.
func (a *Aggregator) GetConcertsByLocation(ctx context.Context, city, country string) []models.NormalizedEvent {
	cacheKey := fmt.Sprintf("concerts:location:%s:%s", strings.ToLower(city), strings.ToLower(country))
	if cached, ok := a.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("concerts").Inc()
		return cached.([]models.NormalizedEvent)
	}
	metrics.CacheMissesTotal.WithLabelValues("concerts").Inc()

	events, err := a.source.SearchEvents(ctx, "", city, country)
	if err != nil {
		logging.Warn().Err(err).Str("city", city).Str("country", country).Msg("Location concert lookup failed, returning empty result")
		return []models.NormalizedEvent{}
	}

	a.cache.SetWithTTL(cacheKey, events, a.cacheTTL)
	return events
}
