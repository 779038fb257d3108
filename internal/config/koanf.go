// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/soundcheck/config.yaml",
	"/etc/soundcheck/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		MusicBrainz: MusicBrainzConfig{
			BaseURL:       "https://musicbrainz.org/ws/2",
			UserAgent:     "",
			Timeout:       15 * time.Second,
			RatePerSecond: 1,
			Burst:         1,
		},
		Spotify: SpotifyConfig{
			ClientID:      "",
			ClientSecret:  "",
			BaseURL:       "https://api.spotify.com/v1",
			TokenURL:      "https://accounts.spotify.com/api/token",
			Timeout:       15 * time.Second,
			TokenTTL:      55 * time.Minute,
			RatePerSecond: 3,
			Burst:         180,
		},
		Ticketmaster: TicketmasterConfig{
			APIKey:        "",
			BaseURL:       "https://app.ticketmaster.com/discovery/v2",
			Timeout:       15 * time.Second,
			RatePerSecond: 5,
			Burst:         100,
		},
		Resolver: ResolverConfig{
			MatchThreshold:     80,
			FallbackConfidence: 50,
		},
		Cache: CacheConfig{
			IdentityTTL:     time.Hour,
			MetadataTTL:     time.Hour,
			AlbumTTL:        12 * time.Hour,
			ConcertTTL:      6 * time.Hour,
			CleanupInterval: 15 * time.Minute,
		},
		Alerts: AlertsConfig{
			Enabled:         true,
			SweepInterval:   6 * time.Hour,
			CleanupInterval: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			URL:      "",
			MaxConns: 8,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, checking
// CONFIG_PATH before the default search paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields. Env vars arrive as plain strings, but the
// config expects slices for these paths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults), nothing to do.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Well-known variables keep their conventional names; everything
// else follows the SECTION_KEY convention.
//
// Examples:
//   - MUSICBRAINZ_USER_AGENT -> musicbrainz.user_agent
//   - SPOTIFY_CLIENT_ID      -> spotify.client_id
//   - TICKETMASTER_API_KEY   -> ticketmaster.api_key
//   - DATABASE_URL           -> database.url
//   - HTTP_PORT              -> server.port
//   - LOG_LEVEL              -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"musicbrainz_base_url":        "musicbrainz.base_url",
		"musicbrainz_user_agent":      "musicbrainz.user_agent",
		"musicbrainz_timeout":         "musicbrainz.timeout",
		"musicbrainz_rate_per_second": "musicbrainz.rate_per_second",

		"spotify_client_id":       "spotify.client_id",
		"spotify_client_secret":   "spotify.client_secret",
		"spotify_base_url":        "spotify.base_url",
		"spotify_token_url":       "spotify.token_url",
		"spotify_token_ttl":       "spotify.token_ttl",
		"spotify_rate_per_second": "spotify.rate_per_second",

		"ticketmaster_api_key":         "ticketmaster.api_key",
		"ticketmaster_base_url":        "ticketmaster.base_url",
		"ticketmaster_rate_per_second": "ticketmaster.rate_per_second",

		"resolver_match_threshold":     "resolver.match_threshold",
		"resolver_fallback_confidence": "resolver.fallback_confidence",

		"cache_identity_ttl":     "cache.identity_ttl",
		"cache_metadata_ttl":     "cache.metadata_ttl",
		"cache_album_ttl":        "cache.album_ttl",
		"cache_concert_ttl":      "cache.concert_ttl",
		"cache_cleanup_interval": "cache.cleanup_interval",

		"alerts_enabled":          "alerts.enabled",
		"alerts_sweep_interval":   "alerts.sweep_interval",
		"alerts_cleanup_interval": "alerts.cleanup_interval",

		"database_url":       "database.url",
		"database_max_conns": "database.max_conns",

		"http_host":         "server.host",
		"http_port":         "server.port",
		"http_timeout":      "server.timeout",
		"cors_origins":      "server.cors_origins",
		"rate_limit_reqs":   "server.rate_limit_reqs",
		"rate_limit_window": "server.rate_limit_window",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown variables are dropped rather than guessed at.
	return ""
}
