// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// ArtistStore implements storage.ArtistStore using PostgreSQL.
type ArtistStore struct {
	pool *Pool
}

// NewArtistStore creates a new ArtistStore.
func NewArtistStore(pool *Pool) *ArtistStore {
	return &ArtistStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ArtistStore = (*ArtistStore)(nil)

// Upsert inserts or updates an artist by external ID.
func (s *ArtistStore) Upsert(ctx context.Context, a *models.Artist) (*models.Artist, error) {
	query := `
		INSERT INTO artists (
			id, external_id, name, mbid, spotify_id, genres, image_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (external_id) DO UPDATE SET
			name       = EXCLUDED.name,
			mbid       = EXCLUDED.mbid,
			spotify_id = EXCLUDED.spotify_id,
			genres     = EXCLUDED.genres,
			image_url  = EXCLUDED.image_url,
			updated_at = now()
		RETURNING id, external_id, name, mbid, spotify_id, genres, image_url, created_at, updated_at
	`

	id := a.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := s.pool.QueryRow(ctx, query,
		id,
		a.ExternalID,
		a.Name,
		a.MBID,
		a.SpotifyID,
		a.Genres,
		a.ImageURL,
	)

	stored, err := scanArtist(row)
	if err != nil {
		return nil, fmt.Errorf("upsert artist: %w", err)
	}
	return stored, nil
}

// GetByExternalID retrieves an artist. Returns ErrNotFound if absent.
func (s *ArtistStore) GetByExternalID(ctx context.Context, externalID string) (*models.Artist, error) {
	query := `
		SELECT id, external_id, name, mbid, spotify_id, genres, image_url, created_at, updated_at
		FROM artists
		WHERE external_id = $1
	`

	row := s.pool.QueryRow(ctx, query, externalID)
	a, err := scanArtist(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get artist by external id: %w", err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtist(row rowScanner) (*models.Artist, error) {
	var a models.Artist
	err := row.Scan(
		&a.ID,
		&a.ExternalID,
		&a.Name,
		&a.MBID,
		&a.SpotifyID,
		&a.Genres,
		&a.ImageURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
