// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

func TestArtistStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewArtistStore(pool)
	ctx := context.Background()

	artist := &models.Artist{
		ExternalID: "mbid-a74b1b7f",
		Name:       "Radiohead",
		MBID:       "a74b1b7f-71a5-4011-9441-d0b5e4122711",
		SpotifyID:  "4Z8W4fKeB5YxbusRsdQVPb",
		Genres:     []string{"art rock", "alternative"},
	}

	stored, err := store.Upsert(ctx, artist)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID)
	assert.Equal(t, []string{"art rock", "alternative"}, stored.Genres)

	// Upsert again with new metadata keeps the row id.
	artist.Genres = []string{"art rock"}
	again, err := store.Upsert(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.ID)
	assert.Equal(t, []string{"art rock"}, again.Genres)

	got, err := store.GetByExternalID(ctx, "mbid-a74b1b7f")
	require.NoError(t, err)
	assert.Equal(t, "Radiohead", got.Name)

	_, err = store.GetByExternalID(ctx, "mbid-"+uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStore_ListUsersAndFollows(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	users := NewUserStore(pool)
	artists := NewArtistStore(pool)

	// A user with follows and one without.
	follower := uuid.NewString()
	loner := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO users (id, email) VALUES ($1, $2), ($3, $4)`,
		follower, "follower@example.com", loner, "loner@example.com")
	require.NoError(t, err)

	artist, err := artists.Upsert(ctx, &models.Artist{ExternalID: "mbid-x", Name: "Mogwai"})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO followed_artists (user_id, artist_id) VALUES ($1, $2)`,
		follower, artist.ID)
	require.NoError(t, err)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "users without follows are skipped")
	assert.Equal(t, follower, list[0].ID)

	follows, err := users.ListFollowedArtists(ctx, follower)
	require.NoError(t, err)
	require.Len(t, follows, 1)
	assert.Equal(t, "Mogwai", follows[0].Name)
	assert.Equal(t, artist.ID, follows[0].ArtistID)

	follows, err = users.ListFollowedArtists(ctx, loner)
	require.NoError(t, err)
	assert.Empty(t, follows)
}
