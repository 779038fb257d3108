// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package config

import "time"

// Config is the root configuration for the Soundcheck server. It is
// populated from defaults, an optional YAML file, and environment
// variables, in that order of precedence (env wins).
type Config struct {
	MusicBrainz  MusicBrainzConfig  `koanf:"musicbrainz"`
	Spotify      SpotifyConfig      `koanf:"spotify"`
	Ticketmaster TicketmasterConfig `koanf:"ticketmaster"`
	Resolver     ResolverConfig     `koanf:"resolver"`
	Cache        CacheConfig        `koanf:"cache"`
	Alerts       AlertsConfig       `koanf:"alerts"`
	Database     DatabaseConfig     `koanf:"database"`
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// MusicBrainzConfig configures the MusicBrainz identity client.
// MusicBrainz requires a meaningful User-Agent and allows at most
// one request per second per client.
type MusicBrainzConfig struct {
	BaseURL       string        `koanf:"base_url"`
	UserAgent     string        `koanf:"user_agent"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// SpotifyConfig configures the Spotify metadata client. ClientID and
// ClientSecret are exchanged for an access token via the client
// credentials flow; the token is cached for TokenTTL.
type SpotifyConfig struct {
	ClientID      string        `koanf:"client_id"`
	ClientSecret  string        `koanf:"client_secret"`
	BaseURL       string        `koanf:"base_url"`
	TokenURL      string        `koanf:"token_url"`
	Timeout       time.Duration `koanf:"timeout"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// TicketmasterConfig configures the Ticketmaster Discovery client.
// Concert lookups degrade to empty results when the key is missing,
// so no field here is strictly required.
type TicketmasterConfig struct {
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// ResolverConfig tunes cross-source identity resolution.
type ResolverConfig struct {
	// MatchThreshold is the minimum MusicBrainz search score (0-100)
	// for a candidate to be accepted without an exact name match.
	MatchThreshold int `koanf:"match_threshold"`
	// FallbackConfidence is assigned to artists resolved from Spotify
	// alone, without a canonical MusicBrainz identity.
	FallbackConfidence int `koanf:"fallback_confidence"`
}

// CacheConfig holds per-domain TTLs and the janitor sweep interval.
type CacheConfig struct {
	IdentityTTL     time.Duration `koanf:"identity_ttl"`
	MetadataTTL     time.Duration `koanf:"metadata_ttl"`
	AlbumTTL        time.Duration `koanf:"album_ttl"`
	ConcertTTL      time.Duration `koanf:"concert_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// AlertsConfig configures the concert alert scheduler.
type AlertsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	SweepInterval   time.Duration `koanf:"sweep_interval"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// DatabaseConfig configures the PostgreSQL pool backing artists,
// concerts, notifications and user follows.
type DatabaseConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
