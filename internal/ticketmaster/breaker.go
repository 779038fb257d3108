// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package ticketmaster

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
)

// EventSource is implemented by both Client and BreakerClient so callers
// can take either.
type EventSource interface {
	SearchEvents(ctx context.Context, artistName, city, countryCode string) ([]models.NormalizedEvent, error)
}

var (
	_ EventSource = (*Client)(nil)
	_ EventSource = (*BreakerClient)(nil)
)

// BreakerClient wraps Client with a circuit breaker. Concert lookups are
// the one upstream where failures cascade into user-facing latency (the
// alert sweep fans out one request per followed artist), so a
// persistently failing Discovery API gets cut off instead of retried
// per artist.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests exercise the wrapped Client directly.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[[]models.NormalizedEvent]
	name   string
}

// NewBreakerClient wraps client with a circuit breaker that opens after
// a 60% failure rate across at least 10 requests, and probes recovery
// after 60 seconds open.
func NewBreakerClient(client *Client) *BreakerClient {
	cbName := "ticketmaster-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]models.NormalizedEvent](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening ticketmaster circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// SearchEvents forwards to the wrapped client while the circuit allows
// it. When the circuit is open the call fails fast without touching the
// network.
func (b *BreakerClient) SearchEvents(ctx context.Context, artistName, city, countryCode string) ([]models.NormalizedEvent, error) {
	return b.cb.Execute(func() ([]models.NormalizedEvent, error) {
		return b.client.SearchEvents(ctx, artistName, city, countryCode)
	})
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
