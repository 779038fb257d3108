// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// ConcertStore implements storage.ConcertStore using PostgreSQL.
type ConcertStore struct {
	pool *Pool
}

// NewConcertStore creates a new ConcertStore.
func NewConcertStore(pool *Pool) *ConcertStore {
	return &ConcertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConcertStore = (*ConcertStore)(nil)

const concertColumns = `
	id, external_id, artist_id, artist_name, event_name, venue_name,
	city, country, latitude, longitude, starts_at, ticket_url, source,
	created_at, updated_at
`

// UpsertByExternalID inserts a concert or refreshes its mutable fields.
// The external ID never changes, which makes repeated sweeps idempotent.
func (s *ConcertStore) UpsertByExternalID(ctx context.Context, c *models.Concert) (*models.Concert, error) {
	query := `
		INSERT INTO concerts (
			id, external_id, artist_id, artist_name, event_name, venue_name,
			city, country, latitude, longitude, starts_at, ticket_url, source,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		ON CONFLICT (external_id) DO UPDATE SET
			artist_name = EXCLUDED.artist_name,
			event_name  = EXCLUDED.event_name,
			venue_name  = EXCLUDED.venue_name,
			city        = EXCLUDED.city,
			country     = EXCLUDED.country,
			latitude    = EXCLUDED.latitude,
			longitude   = EXCLUDED.longitude,
			starts_at   = EXCLUDED.starts_at,
			ticket_url  = EXCLUDED.ticket_url,
			updated_at  = now()
		RETURNING ` + concertColumns

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := s.pool.QueryRow(ctx, query,
		id,
		c.ExternalID,
		c.ArtistID,
		c.ArtistName,
		c.EventName,
		c.VenueName,
		c.City,
		c.Country,
		c.Latitude,
		c.Longitude,
		c.StartsAt,
		c.TicketURL,
		c.Source,
	)

	stored, err := scanConcert(row)
	if err != nil {
		return nil, fmt.Errorf("upsert concert: %w", err)
	}
	return stored, nil
}

// GetByExternalID retrieves a concert. Returns ErrNotFound if absent.
func (s *ConcertStore) GetByExternalID(ctx context.Context, externalID string) (*models.Concert, error) {
	query := `SELECT ` + concertColumns + ` FROM concerts WHERE external_id = $1`

	row := s.pool.QueryRow(ctx, query, externalID)
	c, err := scanConcert(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get concert by external id: %w", err)
	}
	return c, nil
}

// DeletePast removes concerts dated strictly before cutoff. Dependent
// notification rows go with them via ON DELETE CASCADE; past concerts
// carry no value once ticket sales have closed.
func (s *ConcertStore) DeletePast(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM concerts WHERE starts_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete past concerts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanConcert(row rowScanner) (*models.Concert, error) {
	var c models.Concert
	err := row.Scan(
		&c.ID,
		&c.ExternalID,
		&c.ArtistID,
		&c.ArtistName,
		&c.EventName,
		&c.VenueName,
		&c.City,
		&c.Country,
		&c.Latitude,
		&c.Longitude,
		&c.StartsAt,
		&c.TicketURL,
		&c.Source,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
