// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	defaultAlbumLimit = 20
	maxAlbumLimit     = 50

	maxNewReleaseOffset = 1000
)

// albumGroups are the release types accepted by the include_groups
// query parameter.
var albumGroups = map[string]bool{
	"album":       true,
	"single":      true,
	"appears_on":  true,
	"compilation": true,
}

// parseAlbumGroups normalizes a comma-separated include_groups value.
// Empty input is valid and selects the client default.
func parseAlbumGroups(raw string) (string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", true
	}
	parts := strings.Split(raw, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !albumGroups[p] {
			return "", false
		}
		cleaned = append(cleaned, p)
	}
	return strings.Join(cleaned, ","), true
}

// ArtistAlbums handles GET /api/v1/artists/spotify/{id}/albums.
// include_groups filters by release type; albums are returned newest
// first.
func (h *Handlers) ArtistAlbums(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("Artist ID is required")
		return
	}

	groups, ok := parseAlbumGroups(r.URL.Query().Get("include_groups"))
	if !ok {
		rw.BadRequest("include_groups must be a comma-separated list of album, single, appears_on, compilation")
		return
	}

	limit := queryInt(r, "limit", defaultAlbumLimit, maxAlbumLimit)
	albums, err := h.albums.GetArtistAlbums(r.Context(), id, groups, limit)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	rw.SuccessList(albums, len(albums))
}

// Album handles GET /api/v1/albums/{id}, returning the full album with
// its track listing.
func (h *Handlers) Album(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("Album ID is required")
		return
	}

	album, err := h.albums.GetAlbum(r.Context(), id)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	rw.Success(album)
}

// SearchAlbums handles GET /api/v1/albums/search?q=<query>.
func (h *Handlers) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		rw.BadRequest("Query parameter \"q\" is required")
		return
	}

	limit := queryInt(r, "limit", defaultAlbumLimit, maxAlbumLimit)
	albums, err := h.albums.SearchAlbums(r.Context(), q, limit)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	rw.SuccessList(albums, len(albums))
}

// NewReleases handles GET /api/v1/albums/new-releases?country=<cc>.
// limit and offset page through the feed.
func (h *Handlers) NewReleases(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	country := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country")))
	limit := queryInt(r, "limit", defaultAlbumLimit, maxAlbumLimit)
	offset := queryInt(r, "offset", 0, maxNewReleaseOffset)

	albums, err := h.albums.GetNewReleases(r.Context(), country, limit, offset)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	rw.SuccessList(albums, len(albums))
}
