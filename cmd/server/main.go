// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Command server runs the Soundcheck API: artist identity resolution,
// album and concert discovery, and the concert alert scheduler.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/alerts"
	"github.com/soundcheckhq/soundcheck/internal/api"
	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/concerts"
	"github.com/soundcheckhq/soundcheck/internal/config"
	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/musicbrainz"
	"github.com/soundcheckhq/soundcheck/internal/resolver"
	"github.com/soundcheckhq/soundcheck/internal/spotify"
	"github.com/soundcheckhq/soundcheck/internal/storage"
	"github.com/soundcheckhq/soundcheck/internal/storage/memory"
	"github.com/soundcheckhq/soundcheck/internal/storage/postgres"
	"github.com/soundcheckhq/soundcheck/internal/supervisor"
	"github.com/soundcheckhq/soundcheck/internal/supervisor/services"
	"github.com/soundcheckhq/soundcheck/internal/ticketmaster"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	// Load configuration first so logging picks up the configured level
	// and format before anything else writes a line.
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("log_level", cfg.Logging.Level).
		Bool("alerts_enabled", cfg.Alerts.Enabled).
		Msg("Starting Soundcheck server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Per-domain caches. Each upstream concern gets its own store so
	// TTLs and janitor metrics stay independent.
	identityCache := cache.New(cfg.Cache.IdentityTTL)
	metadataCache := cache.New(cfg.Cache.MetadataTTL)
	concertCache := cache.New(cfg.Cache.ConcertTTL)

	mbClient, err := musicbrainz.NewClient(musicbrainz.Config{
		BaseURL:        cfg.MusicBrainz.BaseURL,
		UserAgent:      cfg.MusicBrainz.UserAgent,
		Timeout:        cfg.MusicBrainz.Timeout,
		RatePerSecond:  cfg.MusicBrainz.RatePerSecond,
		Burst:          cfg.MusicBrainz.Burst,
		MatchThreshold: cfg.Resolver.MatchThreshold,
		CacheTTL:       cfg.Cache.IdentityTTL,
	}, identityCache)
	if err != nil {
		return fmt.Errorf("creating musicbrainz client: %w", err)
	}

	spotifyClient := spotify.NewClient(spotify.Config{
		ClientID:      cfg.Spotify.ClientID,
		ClientSecret:  cfg.Spotify.ClientSecret,
		BaseURL:       cfg.Spotify.BaseURL,
		TokenURL:      cfg.Spotify.TokenURL,
		Timeout:       cfg.Spotify.Timeout,
		TokenTTL:      cfg.Spotify.TokenTTL,
		RatePerSecond: cfg.Spotify.RatePerSecond,
		Burst:         cfg.Spotify.Burst,
		ArtistTTL:     cfg.Cache.MetadataTTL,
		AlbumTTL:      cfg.Cache.AlbumTTL,
	}, metadataCache)

	tmClient := ticketmaster.NewClient(ticketmaster.Config{
		APIKey:        cfg.Ticketmaster.APIKey,
		BaseURL:       cfg.Ticketmaster.BaseURL,
		Timeout:       cfg.Ticketmaster.Timeout,
		RatePerSecond: cfg.Ticketmaster.RatePerSecond,
		Burst:         cfg.Ticketmaster.Burst,
	})
	tmBreaker := ticketmaster.NewBreakerClient(tmClient)

	res := resolver.New(mbClient, spotifyClient, identityCache, resolver.Config{
		FallbackConfidence: cfg.Resolver.FallbackConfidence,
		CacheTTL:           cfg.Cache.IdentityTTL,
	})
	aggregator := concerts.New(tmBreaker, concertCache, cfg.Cache.ConcertTTL)

	stores, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening stores: %w", err)
	}
	defer cleanup()

	middleware := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	})
	handlers := api.NewHandlers(res, aggregator, spotifyClient, stores.artists, stores.notifications, version)
	router := api.NewRouter(handlers, middleware)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := api.NewServer(addr, router.Setup(), cfg.Server.Timeout)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(server)
	tree.AddBackgroundService(services.NewCacheJanitor(map[string]*cache.Cache{
		"identity": identityCache,
		"metadata": metadataCache,
		"concerts": concertCache,
	}, cfg.Cache.CleanupInterval))

	if cfg.Alerts.Enabled {
		scheduler := alerts.New(aggregator, stores.users, stores.concerts, stores.notifications, alerts.Config{
			SweepInterval:   cfg.Alerts.SweepInterval,
			CleanupInterval: cfg.Alerts.CleanupInterval,
		})
		tree.AddBackgroundService(scheduler)
	}

	logging.Info().Str("addr", addr).Msg("Soundcheck ready")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Soundcheck stopped")
	return nil
}

// storeSet bundles the persistence backends the server wires together.
type storeSet struct {
	artists       storage.ArtistStore
	concerts      storage.ConcertStore
	notifications storage.NotificationStore
	users         storage.UserStore
}

// openStores selects the persistence backend. A configured DATABASE_URL
// means postgres; otherwise everything runs on the in-memory store,
// which is fine for discovery-only deployments but loses alert state on
// restart.
func openStores(ctx context.Context, cfg *config.Config) (*storeSet, func(), error) {
	if cfg.Database.URL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(connectCtx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logging.Info().Int32("max_conns", cfg.Database.MaxConns).Msg("Using postgres storage")
		return &storeSet{
			artists:       postgres.NewArtistStore(pool),
			concerts:      postgres.NewConcertStore(pool),
			notifications: postgres.NewNotificationStore(pool),
			users:         postgres.NewUserStore(pool),
		}, pool.Close, nil
	}

	if cfg.Alerts.Enabled {
		logging.Warn().Msg("Alerts enabled without a database; alert state is in-memory only")
	}
	db := memory.NewDB()
	return &storeSet{
		artists:       memory.NewArtistStore(db),
		concerts:      memory.NewConcertStore(db),
		notifications: memory.NewNotificationStore(db),
		users:         memory.NewUserStore(db),
	}, func() {}, nil
}
