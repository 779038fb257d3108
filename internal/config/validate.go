// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}

	if err := c.validateSpotify(); err != nil {
		return err
	}

	if err := c.validateTicketmaster(); err != nil {
		return err
	}

	if err := c.validateResolver(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateAlerts(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateMusicBrainz enforces the MusicBrainz etiquette requirements:
// a descriptive User-Agent and a rate at or below one request per second.
func (c *Config) validateMusicBrainz() error {
	if c.MusicBrainz.UserAgent == "" {
		return fmt.Errorf("MUSICBRAINZ_USER_AGENT is required (format: AppName/Version (contact))")
	}
	if err := validateHTTPURL("musicbrainz.base_url", c.MusicBrainz.BaseURL); err != nil {
		return err
	}
	if c.MusicBrainz.RatePerSecond <= 0 || c.MusicBrainz.RatePerSecond > 1 {
		return fmt.Errorf("musicbrainz.rate_per_second must be in (0, 1], got %v", c.MusicBrainz.RatePerSecond)
	}
	if c.MusicBrainz.Timeout <= 0 {
		return fmt.Errorf("musicbrainz.timeout must be positive")
	}
	return nil
}

// validateSpotify checks URL shape and rate settings. Missing
// credentials are not an error here: the Spotify client reports a
// configuration error on first use instead, so deployments without
// Spotify still start.
func (c *Config) validateSpotify() error {
	if err := validateHTTPURL("spotify.base_url", c.Spotify.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("spotify.token_url", c.Spotify.TokenURL); err != nil {
		return err
	}
	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}
	if c.Spotify.RatePerSecond <= 0 {
		return fmt.Errorf("spotify.rate_per_second must be positive")
	}
	if c.Spotify.TokenTTL <= 0 {
		return fmt.Errorf("spotify.token_ttl must be positive")
	}
	return nil
}

func (c *Config) validateTicketmaster() error {
	if err := validateHTTPURL("ticketmaster.base_url", c.Ticketmaster.BaseURL); err != nil {
		return err
	}
	if c.Ticketmaster.RatePerSecond <= 0 {
		return fmt.Errorf("ticketmaster.rate_per_second must be positive")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.MatchThreshold < 0 || c.Resolver.MatchThreshold > 100 {
		return fmt.Errorf("resolver.match_threshold must be in [0, 100], got %d", c.Resolver.MatchThreshold)
	}
	if c.Resolver.FallbackConfidence < 0 || c.Resolver.FallbackConfidence > 100 {
		return fmt.Errorf("resolver.fallback_confidence must be in [0, 100], got %d", c.Resolver.FallbackConfidence)
	}
	return nil
}

func (c *Config) validateCache() error {
	ttls := map[string]interface{ Seconds() float64 }{
		"cache.identity_ttl":     c.Cache.IdentityTTL,
		"cache.metadata_ttl":     c.Cache.MetadataTTL,
		"cache.album_ttl":        c.Cache.AlbumTTL,
		"cache.concert_ttl":      c.Cache.ConcertTTL,
		"cache.cleanup_interval": c.Cache.CleanupInterval,
	}
	for name, d := range ttls {
		if d.Seconds() <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// validateAlerts requires a database only when the scheduler is on.
func (c *Config) validateAlerts() error {
	if !c.Alerts.Enabled {
		return nil
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when alerts are enabled")
	}
	if c.Alerts.SweepInterval <= 0 {
		return fmt.Errorf("alerts.sweep_interval must be positive")
	}
	if c.Alerts.CleanupInterval <= 0 {
		return fmt.Errorf("alerts.cleanup_interval must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, fatal; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
