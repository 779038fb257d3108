// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package storage defines the persistence interfaces the alert
// scheduler and API depend on. The postgres subpackage is the
// production implementation; memory backs tests.
package storage

import (
	"context"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/models"
)

// ArtistStore provides access to persisted artists.
type ArtistStore interface {
	// Upsert inserts or updates an artist by external ID and returns
	// the stored row.
	Upsert(ctx context.Context, a *models.Artist) (*models.Artist, error)

	// GetByExternalID retrieves an artist. Returns ErrNotFound if absent.
	GetByExternalID(ctx context.Context, externalID string) (*models.Artist, error)
}

// ConcertStore provides access to persisted concerts.
type ConcertStore interface {
	// UpsertByExternalID inserts a concert or updates its mutable
	// fields (name, venue, date, ticket URL) when the external ID
	// already exists. Returns the stored row either way.
	UpsertByExternalID(ctx context.Context, c *models.Concert) (*models.Concert, error)

	// GetByExternalID retrieves a concert. Returns ErrNotFound if absent.
	GetByExternalID(ctx context.Context, externalID string) (*models.Concert, error)

	// DeletePast removes concerts whose date is strictly before cutoff.
	// Returns the number of rows deleted.
	DeletePast(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationStore provides access to user notifications and the
// (user, concert) dedup constraint.
type NotificationStore interface {
	// Create inserts a notification. Returns ErrDuplicateKey when the
	// user was already notified about the concert.
	Create(ctx context.Context, n *models.Notification) error

	// ExistsForUserAndConcert reports whether a notification already
	// exists for the pair.
	ExistsForUserAndConcert(ctx context.Context, userID, concertID string) (bool, error)

	// ListForUser returns a user's notifications, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// UserStore provides the user views the alert sweep iterates over.
type UserStore interface {
	// ListUsers returns all users with at least one followed artist.
	ListUsers(ctx context.Context) ([]models.User, error)

	// ListFollowedArtists returns the artists a user follows.
	ListFollowedArtists(ctx context.Context, userID string) ([]models.FollowedArtist, error)
}
