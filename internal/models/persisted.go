// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package models

import "time"

// Artist is a persisted artist row. ExternalID holds the resolver's
// canonical identifier (MBID when known, otherwise the Spotify ID).
type Artist struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	MBID       string    `json:"mbid,omitempty"`
	SpotifyID  string    `json:"spotify_id,omitempty"`
	Genres     []string  `json:"genres,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Concert is a persisted concert row, keyed by the normalized event's
// ExternalID for idempotent upserts from the alert sweep.
type Concert struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	ArtistID   string    `json:"artist_id,omitempty"`
	ArtistName string    `json:"artist_name,omitempty"`
	EventName  string    `json:"event_name"`
	VenueName  string    `json:"venue_name,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	Latitude   float64   `json:"latitude,omitempty"`
	Longitude  float64   `json:"longitude,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	TicketURL  string    `json:"ticket_url,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Notification is an alert emitted to a user about one concert.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ConcertID string    `json:"concert_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the minimal user view the alert sweep needs.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// FollowedArtist is an artist a user follows, as stored.
type FollowedArtist struct {
	ArtistID string `json:"artist_id"`
	Name     string `json:"name"`
}
