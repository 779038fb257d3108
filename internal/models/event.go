// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package models

import "time"

// Venue is the location a concert takes place at. Missing upstream fields
// stay zero-valued rather than failing normalization.
type Venue struct {
	Name      string  `json:"name"`
	City      string  `json:"city,omitempty"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// NormalizedEvent is a concert event in the common shape all ticketing
// sources normalize into. ExternalID is "<source>_<providerEventID>" and is
// globally unique per source; it is the dedup/upsert key for persisted
// concerts, stable across runs.
type NormalizedEvent struct {
	ExternalID string    `json:"external_id"`
	ArtistName string    `json:"artist_name,omitempty"`
	EventName  string    `json:"event_name"`
	Venue      Venue     `json:"venue"`
	StartsAt   time.Time `json:"starts_at"`
	TicketURL  string    `json:"ticket_url,omitempty"`
	Lineup     string    `json:"lineup,omitempty"`
	Source     string    `json:"source"`
}
