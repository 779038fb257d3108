// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package models

// Image is artwork at a specific resolution as served by Spotify.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MetadataRecord is the catalog view of an artist from Spotify:
// genre tags, popularity signals, and artwork.
type MetadataRecord struct {
	SpotifyID  string   `json:"spotify_id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	Images     []Image  `json:"images,omitempty"`
	SpotifyURL string   `json:"spotify_url,omitempty"`
}

// AlbumArtist is the minimal artist reference embedded in album responses.
type AlbumArtist struct {
	SpotifyID string `json:"spotify_id"`
	Name      string `json:"name"`
}

// Track is a single album track. Only populated on full album lookups.
type Track struct {
	SpotifyID   string `json:"spotify_id"`
	Name        string `json:"name"`
	TrackNumber int    `json:"track_number"`
	DurationMS  int    `json:"duration_ms"`
}

// Album is a Spotify album, single, or compilation. ReleaseDate keeps
// Spotify's string form because its precision varies (year, month, or day);
// ReleaseDatePrecision records which one applies.
type Album struct {
	SpotifyID            string        `json:"spotify_id"`
	Name                 string        `json:"name"`
	AlbumType            string        `json:"album_type"`
	ReleaseDate          string        `json:"release_date"`
	ReleaseDatePrecision string        `json:"release_date_precision,omitempty"`
	TotalTracks          int           `json:"total_tracks"`
	Images               []Image       `json:"images,omitempty"`
	SpotifyURL           string        `json:"spotify_url,omitempty"`
	Artists              []AlbumArtist `json:"artists,omitempty"`
	Label                string        `json:"label,omitempty"`
	Popularity           int           `json:"popularity,omitempty"`
	Tracks               []Track       `json:"tracks,omitempty"`
}
