// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

/*
scheduler.go - Concert Alert Scheduler

Periodically sweeps every user's followed artists for upcoming
concerts, persists them, and creates one notification per
(user, concert) pair. A daily companion job deletes concerts whose
date has passed; ticket sales close once the show happened, so stale
rows carry no value.

Failure isolation is per item: one bad artist, event, or user is
logged and counted, never aborting the rest of the sweep.
*/

package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// ConcertSource is the aggregator surface the sweep consumes. It never
// errors; upstream failures surface as empty slices.
type ConcertSource interface {
	GetArtistConcerts(ctx context.Context, artistName string) []models.NormalizedEvent
}

// Config tunes the scheduler's cadence.
type Config struct {
	SweepInterval   time.Duration
	CleanupInterval time.Duration
}

// Scheduler owns the sweep and cleanup loops. It implements
// suture.Service via Serve.
type Scheduler struct {
	source          ConcertSource
	users           storage.UserStore
	concerts        storage.ConcertStore
	notifications   storage.NotificationStore
	sweepInterval   time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the scheduler's time source. The clock feeds the
// past-concert cutoff and notification timestamps, not the tickers.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a Scheduler. Intervals <= 0 default to 6h sweeps and
// 24h cleanups.
func New(source ConcertSource, users storage.UserStore, concerts storage.ConcertStore, notifications storage.NotificationStore, cfg Config, opts ...Option) *Scheduler {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 6 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 24 * time.Hour
	}

	s := &Scheduler{
		source:          source,
		users:           users,
		concerts:        concerts,
		notifications:   notifications,
		sweepInterval:   cfg.SweepInterval,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs the sweep and cleanup loops until ctx is canceled. The
// first sweep runs immediately so a fresh deployment does not sit
// silent for six hours.
func (s *Scheduler) Serve(ctx context.Context) error {
	logging.Info().
		Dur("sweep_interval", s.sweepInterval).
		Dur("cleanup_interval", s.cleanupInterval).
		Msg("Alert scheduler started")

	s.runSweep(ctx)

	sweepTicker := time.NewTicker(s.sweepInterval)
	defer sweepTicker.Stop()
	cleanupTicker := time.NewTicker(s.cleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Alert scheduler stopping")
			return ctx.Err()
		case <-sweepTicker.C:
			s.runSweep(ctx)
		case <-cleanupTicker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	start := time.Now()
	stats, err := s.Sweep(ctx)
	metrics.AlertSweepDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		logging.Error().Err(err).Msg("Alert sweep failed")
		return
	}

	metrics.AlertLastSweepSuccess.SetToCurrentTime()
	logging.Info().
		Int("users", stats.Users).
		Int("artists", stats.Artists).
		Int("events", stats.Events).
		Int("notifications", stats.Notifications).
		Int("errors", stats.Errors).
		Dur("took", time.Since(start)).
		Msg("Alert sweep complete")
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	deleted, err := s.CleanupPast(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Past-concert cleanup failed")
		return
	}
	logging.Info().Int64("deleted", deleted).Msg("Past-concert cleanup complete")
}

// SweepStats summarizes one sweep for logging and tests.
type SweepStats struct {
	Users         int
	Artists       int
	Events        int
	Notifications int
	Errors        int
}

// Sweep walks every user's followed artists once. Only a failure to
// list users aborts the sweep; everything below that is isolated.
func (s *Scheduler) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		metrics.AlertSweepErrors.WithLabelValues("fetch").Inc()
		return stats, fmt.Errorf("list users: %w", err)
	}
	stats.Users = len(users)

	for _, user := range users {
		follows, err := s.users.ListFollowedArtists(ctx, user.ID)
		if err != nil {
			stats.Errors++
			metrics.AlertSweepErrors.WithLabelValues("fetch").Inc()
			logging.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to list followed artists, skipping user")
			continue
		}

		for _, artist := range follows {
			stats.Artists++
			events := s.source.GetArtistConcerts(ctx, artist.Name)

			for _, event := range events {
				stats.Events++
				metrics.AlertEventsSeen.Inc()

				created, err := s.processEvent(ctx, user.ID, artist, event)
				if err != nil {
					stats.Errors++
					logging.Warn().Err(err).
						Str("user_id", user.ID).
						Str("external_id", event.ExternalID).
						Msg("Failed to process event, continuing sweep")
					continue
				}
				if created {
					stats.Notifications++
					metrics.AlertNotificationsCreated.Inc()
				}
			}
		}
	}

	return stats, nil
}

// processEvent upserts the concert and creates a notification unless
// the user already has one for it. Returns whether a notification was
// created.
func (s *Scheduler) processEvent(ctx context.Context, userID string, artist models.FollowedArtist, event models.NormalizedEvent) (bool, error) {
	concert, err := s.concerts.UpsertByExternalID(ctx, &models.Concert{
		ExternalID: event.ExternalID,
		ArtistID:   artist.ArtistID,
		ArtistName: artist.Name,
		EventName:  event.EventName,
		VenueName:  event.Venue.Name,
		City:       event.Venue.City,
		Country:    event.Venue.Country,
		Latitude:   event.Venue.Latitude,
		Longitude:  event.Venue.Longitude,
		StartsAt:   event.StartsAt,
		TicketURL:  event.TicketURL,
		Source:     event.Source,
	})
	if err != nil {
		metrics.AlertSweepErrors.WithLabelValues("upsert").Inc()
		return false, fmt.Errorf("upsert concert: %w", err)
	}

	exists, err := s.notifications.ExistsForUserAndConcert(ctx, userID, concert.ID)
	if err != nil {
		metrics.AlertSweepErrors.WithLabelValues("notify").Inc()
		return false, fmt.Errorf("check notification: %w", err)
	}
	if exists {
		return false, nil
	}

	err = s.notifications.Create(ctx, &models.Notification{
		UserID:    userID,
		ConcertID: concert.ID,
		Message:   notificationMessage(artist.Name, concert),
	})
	if err != nil {
		// A concurrent sweep may have inserted the pair between the
		// exists check and the insert; that is a dedup win, not an error.
		if errors.Is(err, storage.ErrDuplicateKey) {
			return false, nil
		}
		metrics.AlertSweepErrors.WithLabelValues("notify").Inc()
		return false, fmt.Errorf("create notification: %w", err)
	}
	return true, nil
}

// CleanupPast deletes concerts dated before now.
func (s *Scheduler) CleanupPast(ctx context.Context) (int64, error) {
	deleted, err := s.concerts.DeletePast(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete past concerts: %w", err)
	}
	metrics.AlertConcertsDeleted.Add(float64(deleted))
	return deleted, nil
}

func notificationMessage(artistName string, c *models.Concert) string {
	venue := c.VenueName
	if venue == "" {
		venue = "a venue to be announced"
	}
	where := venue
	if c.City != "" {
		where = venue + ", " + c.City
	}
	if c.StartsAt.IsZero() {
		return fmt.Sprintf("%s announced a concert at %s", artistName, where)
	}
	return fmt.Sprintf("%s is playing at %s on %s", artistName, where, c.StartsAt.Format("Jan 2, 2006"))
}
