// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package metrics defines the Prometheus instruments for Soundcheck.
//
// Instrumented areas:
//   - Upstream API calls (MusicBrainz, Spotify, Ticketmaster)
//   - Retry and rate-limit behavior
//   - Cache efficiency per domain
//   - Artist resolution outcomes
//   - Alert sweep progress
//   - Circuit breaker state for the ticketing upstream
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream API metrics. The "api" label is the upstream name
	// (musicbrainz, spotify, ticketmaster).
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"api", "operation", "outcome"}, // outcome: "success", "error"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"api", "operation"},
	)

	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_retries_total",
			Help: "Total number of upstream request retries",
		},
		[]string{"api", "reason"}, // reason: "rate_limited", "unavailable"
	)

	UpstreamRateLimitWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the local token bucket before an upstream call",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"api"},
	)

	// Cache metrics. The "domain" label is the logical cache (identity,
	// metadata, albums, concerts, oauth_token).
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"domain"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"domain"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"domain"},
	)

	CacheCleanupRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_cleanup_removed_total",
			Help: "Total number of expired cache entries removed by the janitor",
		},
		[]string{"domain"},
	)

	// Resolver metrics.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artist_resolutions_total",
			Help: "Total number of artist resolutions by outcome",
		},
		[]string{"outcome"}, // "merged", "spotify_only", "not_found", "failed"
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artist_resolution_duration_seconds",
			Help:    "End-to-end artist resolution duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Alert sweep metrics.
	AlertSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alert_sweep_duration_seconds",
			Help:    "Duration of alert sweep runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	AlertNotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_notifications_created_total",
			Help: "Total number of concert notifications created",
		},
	)

	AlertEventsSeen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_events_seen_total",
			Help: "Total number of concert events processed by the alert sweep",
		},
	)

	AlertSweepErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_sweep_errors_total",
			Help: "Total number of errors during alert sweeps",
		},
		[]string{"stage"}, // "fetch", "upsert", "notify"
	)

	AlertConcertsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_past_concerts_deleted_total",
			Help: "Total number of past concerts deleted by the cleanup job",
		},
	)

	AlertLastSweepSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alert_last_sweep_success_timestamp",
			Help: "Unix timestamp of the last successful alert sweep",
		},
	)

	// Circuit breaker metrics (ticketing upstream).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
