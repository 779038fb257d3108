// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/resolver"
	"github.com/soundcheckhq/soundcheck/internal/storage"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

// ArtistResolver is the resolution surface the handlers consume.
type ArtistResolver interface {
	ResolveArtist(ctx context.Context, name string) (*models.UnifiedArtist, error)
	ResolveArtists(ctx context.Context, names []string) []models.ResolveResult
	GetArtistMetadata(ctx context.Context, id string, idType resolver.IDType) (*models.ArtistMetadata, error)
}

// ConcertFinder is the aggregator surface the handlers consume.
type ConcertFinder interface {
	GetArtistConcerts(ctx context.Context, artistName string) []models.NormalizedEvent
	GetConcertsByLocation(ctx context.Context, city, country string) []models.NormalizedEvent
}

// AlbumCatalog is the album surface the handlers consume.
type AlbumCatalog interface {
	GetArtistAlbums(ctx context.Context, id, groups string, limit int) ([]models.Album, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	SearchAlbums(ctx context.Context, q string, limit int) ([]models.Album, error)
	GetNewReleases(ctx context.Context, country string, limit, offset int) ([]models.Album, error)
}

// Handlers holds all HTTP request handlers and their dependencies.
type Handlers struct {
	resolver      ArtistResolver
	concerts      ConcertFinder
	albums        AlbumCatalog
	artists       storage.ArtistStore
	notifications storage.NotificationStore
	version       string
}

// NewHandlers creates the handler set. artists may be nil to skip
// persisting resolved identities; notifications may be nil when alerts
// are disabled, in which case the notification endpoints return 503.
func NewHandlers(res ArtistResolver, concerts ConcertFinder, albums AlbumCatalog, artists storage.ArtistStore, notifications storage.NotificationStore, version string) *Handlers {
	return &Handlers{
		resolver:      res,
		concerts:      concerts,
		albums:        albums,
		artists:       artists,
		notifications: notifications,
		version:       version,
	}
}

// respondUpstreamError maps the upstream error taxonomy onto HTTP
// status codes.
func respondUpstreamError(rw *ResponseWriter, err error) {
	var rateLimited *upstream.RateLimitedError
	var unavailable *upstream.UnavailableError
	var misconfigured *upstream.ConfigurationError
	var resolution *resolver.ResolutionError

	switch {
	case errors.Is(err, resolver.ErrArtistNotFound), errors.Is(err, upstream.ErrNotFound):
		rw.NotFound("Artist not found")
	case errors.As(err, &rateLimited):
		if rateLimited.RetryAfter > 0 {
			rw.w.Header().Set("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
		}
		rw.TooManyRequests("Upstream rate limit exceeded, try again later")
	case errors.As(err, &misconfigured):
		rw.ServiceUnavailable("Service not configured: " + misconfigured.Msg)
	case errors.As(err, &unavailable):
		rw.ExternalServiceError(unavailable.API, err)
	case errors.As(err, &resolution):
		rw.ExternalServiceError("resolver", err)
	default:
		rw.InternalError("An unexpected error occurred")
	}
}

// requireJSONPost rejects non-JSON content types on write endpoints.
func requireJSONPost(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
		NewResponseWriter(w, r).BadRequest("Content-Type must be application/json")
		return false
	}
	return true
}
