// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/resolver"
)

// ResolveArtist handles POST /api/v1/artists/resolve.
// Resolves a free-text artist name into a unified identity.
func (h *Handlers) ResolveArtist(w http.ResponseWriter, r *http.Request) {
	if !requireJSONPost(w, r) {
		return
	}

	var req ResolveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rw := NewResponseWriter(w, r)
	artist, err := h.resolver.ResolveArtist(r.Context(), req.Name)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	h.persistArtist(r.Context(), artist)
	rw.Success(artist)
}

// persistArtist upserts a resolved identity into the artist catalog.
// Best effort; a storage failure never fails the resolve request.
func (h *Handlers) persistArtist(ctx context.Context, artist *models.UnifiedArtist) {
	if h.artists == nil || artist == nil {
		return
	}

	externalID := ""
	switch {
	case artist.MBID != "":
		externalID = "mbid-" + artist.MBID
	case artist.SpotifyID != "":
		externalID = "spotify-" + artist.SpotifyID
	default:
		return
	}

	imageURL := ""
	if len(artist.Images) > 0 {
		imageURL = artist.Images[0].URL
	}

	_, err := h.artists.Upsert(ctx, &models.Artist{
		ExternalID: externalID,
		Name:       artist.Name,
		MBID:       artist.MBID,
		SpotifyID:  artist.SpotifyID,
		Genres:     artist.Genres,
		ImageURL:   imageURL,
	})
	if err != nil {
		logging.Warn().Err(err).Str("external_id", externalID).Msg("Failed to persist resolved artist")
	}
}

// ResolveArtistsBatch handles POST /api/v1/artists/resolve/batch.
// Resolves up to 50 names, returning per-name results in input order.
func (h *Handlers) ResolveArtistsBatch(w http.ResponseWriter, r *http.Request) {
	if !requireJSONPost(w, r) {
		return
	}

	var req BatchResolveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	results := h.resolver.ResolveArtists(r.Context(), req.Names)
	for _, result := range results {
		if result.Artist != nil {
			h.persistArtist(r.Context(), result.Artist)
		}
	}
	NewResponseWriter(w, r).SuccessList(results, len(results))
}

// ArtistMetadata handles GET /api/v1/artists/{idType}/{id}.
// idType is "mbid" or "spotify".
func (h *Handlers) ArtistMetadata(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	idType := resolver.IDType(chi.URLParam(r, "idType"))
	if idType != resolver.IDTypeMBID && idType != resolver.IDTypeSpotify {
		rw.BadRequest("ID type must be \"mbid\" or \"spotify\"")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("Artist ID is required")
		return
	}
	if idType == resolver.IDTypeMBID && !validateParams(rw, &MBIDParam{ID: id}) {
		return
	}

	meta, err := h.resolver.GetArtistMetadata(r.Context(), id, idType)
	if err != nil {
		respondUpstreamError(rw, err)
		return
	}

	rw.Success(meta)
}
