// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"fmt"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// ListUsers returns users with at least one followed artist. Users
// following nobody are skipped; the alert sweep has nothing to do for
// them.
func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.email
		FROM users u
		JOIN followed_artists f ON f.user_id = u.id
		ORDER BY u.id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// ListFollowedArtists returns the artists a user follows.
func (s *UserStore) ListFollowedArtists(ctx context.Context, userID string) ([]models.FollowedArtist, error) {
	query := `
		SELECT f.artist_id, a.name
		FROM followed_artists f
		JOIN artists a ON a.id = f.artist_id
		WHERE f.user_id = $1
		ORDER BY a.name
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list followed artists: %w", err)
	}
	defer rows.Close()

	var artists []models.FollowedArtist
	for rows.Next() {
		var f models.FollowedArtist
		if err := rows.Scan(&f.ArtistID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan followed artist: %w", err)
		}
		artists = append(artists, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate followed artists: %w", err)
	}
	return artists, nil
}
