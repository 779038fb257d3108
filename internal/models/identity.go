// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package models

// CandidateMatch is a scored artist candidate returned by a MusicBrainz
// name search. Score is the match confidence assigned by MusicBrainz (0-100).
type CandidateMatch struct {
	MBID           string   `json:"mbid"`
	Name           string   `json:"name"`
	SortName       string   `json:"sort_name"`
	Type           string   `json:"type,omitempty"`
	Country        string   `json:"country,omitempty"`
	Disambiguation string   `json:"disambiguation,omitempty"`
	Score          int      `json:"score"`
	Aliases        []string `json:"aliases,omitempty"`
}

// LifeSpan describes when an artist was active.
type LifeSpan struct {
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`
	Ended bool   `json:"ended"`
}

// ArtistDetail is the full MusicBrainz record for a single artist,
// fetched by MBID with aliases, tags, and genres included.
type ArtistDetail struct {
	MBID           string    `json:"mbid"`
	Name           string    `json:"name"`
	SortName       string    `json:"sort_name"`
	Type           string    `json:"type,omitempty"`
	Country        string    `json:"country,omitempty"`
	Disambiguation string    `json:"disambiguation,omitempty"`
	LifeSpan       *LifeSpan `json:"life_span,omitempty"`
	Aliases        []string  `json:"aliases,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Genres         []string  `json:"genres,omitempty"`
}
