// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// ArtistStore implements storage.ArtistStore on a DB.
type ArtistStore struct {
	db *DB
}

// NewArtistStore creates an ArtistStore.
func NewArtistStore(db *DB) *ArtistStore {
	return &ArtistStore{db: db}
}

var _ storage.ArtistStore = (*ArtistStore)(nil)

// Upsert inserts or updates an artist by external ID.
func (s *ArtistStore) Upsert(ctx context.Context, a *models.Artist) (*models.Artist, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, exists := s.db.artists[a.ExternalID]
	if exists {
		stored.Name = a.Name
		stored.MBID = a.MBID
		stored.SpotifyID = a.SpotifyID
		stored.Genres = a.Genres
		stored.ImageURL = a.ImageURL
		stored.UpdatedAt = s.db.now()
	} else {
		stored = *a
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		stored.CreatedAt = s.db.now()
		stored.UpdatedAt = stored.CreatedAt
	}
	s.db.artists[a.ExternalID] = stored
	return &stored, nil
}

// GetByExternalID retrieves an artist by external ID.
func (s *ArtistStore) GetByExternalID(ctx context.Context, externalID string) (*models.Artist, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.artists[externalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

// ConcertStore implements storage.ConcertStore on a DB.
type ConcertStore struct {
	db *DB
}

// NewConcertStore creates a ConcertStore.
func NewConcertStore(db *DB) *ConcertStore {
	return &ConcertStore{db: db}
}

var _ storage.ConcertStore = (*ConcertStore)(nil)

// UpsertByExternalID inserts a concert or updates its mutable fields.
func (s *ConcertStore) UpsertByExternalID(ctx context.Context, c *models.Concert) (*models.Concert, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, exists := s.db.concerts[c.ExternalID]
	if exists {
		stored.ArtistName = c.ArtistName
		stored.EventName = c.EventName
		stored.VenueName = c.VenueName
		stored.City = c.City
		stored.Country = c.Country
		stored.Latitude = c.Latitude
		stored.Longitude = c.Longitude
		stored.StartsAt = c.StartsAt
		stored.TicketURL = c.TicketURL
		stored.UpdatedAt = s.db.now()
	} else {
		stored = *c
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		stored.CreatedAt = s.db.now()
		stored.UpdatedAt = stored.CreatedAt
	}
	s.db.concerts[c.ExternalID] = stored
	return &stored, nil
}

// GetByExternalID retrieves a concert by external ID.
func (s *ConcertStore) GetByExternalID(ctx context.Context, externalID string) (*models.Concert, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.concerts[externalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

// DeletePast removes concerts dated strictly before cutoff, along with
// their notifications and dedup rows (the cascade postgres does).
func (s *ConcertStore) DeletePast(ctx context.Context, cutoff time.Time) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var deleted int64
	for externalID, c := range s.db.concerts {
		if !c.StartsAt.Before(cutoff) {
			continue
		}
		delete(s.db.concerts, externalID)
		deleted++

		for key := range s.db.notified {
			if strings.HasSuffix(key, "|"+c.ID) {
				delete(s.db.notified, key)
			}
		}
		kept := s.db.notifications[:0]
		for _, n := range s.db.notifications {
			if n.ConcertID != c.ID {
				kept = append(kept, n)
			}
		}
		s.db.notifications = kept
	}
	return deleted, nil
}

// NotificationStore implements storage.NotificationStore on a DB.
type NotificationStore struct {
	db *DB
}

// NewNotificationStore creates a NotificationStore.
func NewNotificationStore(db *DB) *NotificationStore {
	return &NotificationStore{db: db}
}

var _ storage.NotificationStore = (*NotificationStore)(nil)

// Create inserts a notification, enforcing (user, concert) uniqueness.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := n.UserID + "|" + n.ConcertID
	if _, dup := s.db.notified[key]; dup {
		return storage.ErrDuplicateKey
	}

	stored := *n
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = s.db.now()
	s.db.notified[key] = struct{}{}
	s.db.notifications = append(s.db.notifications, stored)
	return nil
}

// ExistsForUserAndConcert reports whether the pair was already notified.
func (s *NotificationStore) ExistsForUserAndConcert(ctx context.Context, userID, concertID string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.notified[userID+"|"+concertID]
	return ok, nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationStore) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var list []models.Notification
	for _, n := range s.db.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// UserStore implements storage.UserStore on a DB.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

var _ storage.UserStore = (*UserStore)(nil)

// ListUsers returns users with at least one followed artist.
func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var list []models.User
	for _, u := range s.db.users {
		if len(s.db.follows[u.ID]) > 0 {
			list = append(list, u)
		}
	}
	return list, nil
}

// ListFollowedArtists returns the artists a user follows.
func (s *UserStore) ListFollowedArtists(ctx context.Context, userID string) ([]models.FollowedArtist, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return append([]models.FollowedArtist(nil), s.db.follows[userID]...), nil
}
