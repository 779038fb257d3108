// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package models

import "time"

// Sources records which upstream providers contributed to a resolved artist.
type Sources struct {
	MusicBrainz bool `json:"musicbrainz"`
	Spotify     bool `json:"spotify"`
}

// UnifiedArtist is the merged artist identity produced by the resolver.
// At least one of MBID/SpotifyID is non-empty on a successful resolution.
// Textual identity fields (name, sort name, aliases, type, country,
// disambiguation) come from MusicBrainz when available; catalog fields
// (genres, popularity, followers, images, URL) prefer Spotify.
//
// Confidence is the MusicBrainz match score, or a fixed lower value when
// resolution fell back to Spotify only and the identity is unverified.
type UnifiedArtist struct {
	MBID           string    `json:"mbid,omitempty"`
	SpotifyID      string    `json:"spotify_id,omitempty"`
	Name           string    `json:"name"`
	SortName       string    `json:"sort_name,omitempty"`
	Aliases        []string  `json:"aliases,omitempty"`
	Genres         []string  `json:"genres,omitempty"`
	Popularity     *int      `json:"popularity,omitempty"`
	Followers      *int      `json:"followers,omitempty"`
	Images         []Image   `json:"images,omitempty"`
	Type           string    `json:"type,omitempty"`
	Country        string    `json:"country,omitempty"`
	Disambiguation string    `json:"disambiguation,omitempty"`
	SpotifyURL     string    `json:"spotify_url,omitempty"`
	Confidence     int       `json:"confidence"`
	Sources        Sources   `json:"sources"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

// ResolveResult is one entry of a batch resolution. Either Artist is set and
// Resolved is true, or Error carries the per-name failure. A failed name
// never aborts the rest of the batch.
type ResolveResult struct {
	Name     string         `json:"name"`
	Resolved bool           `json:"resolved"`
	Artist   *UnifiedArtist `json:"artist,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ArtistMetadata is the enriched per-ID metadata view returned by
// Resolver.GetArtistMetadata. It is a superset of MetadataRecord with the
// MusicBrainz-only fields populated for MBID lookups.
type ArtistMetadata struct {
	MBID       string    `json:"mbid,omitempty"`
	SpotifyID  string    `json:"spotify_id,omitempty"`
	Name       string    `json:"name"`
	SortName   string    `json:"sort_name,omitempty"`
	Type       string    `json:"type,omitempty"`
	Country    string    `json:"country,omitempty"`
	Genres     []string  `json:"genres,omitempty"`
	Images     []Image   `json:"images,omitempty"`
	Popularity *int      `json:"popularity,omitempty"`
	Followers  *int      `json:"followers,omitempty"`
	SpotifyURL string    `json:"spotify_url,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	LifeSpan   *LifeSpan `json:"life_span,omitempty"`
}
