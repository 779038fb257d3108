// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

func testConcert(externalID string, startsAt time.Time) *models.Concert {
	return &models.Concert{
		ExternalID: externalID,
		ArtistName: "Radiohead",
		EventName:  "Radiohead Live",
		VenueName:  "The Forum",
		City:       "London",
		Country:    "United Kingdom",
		StartsAt:   startsAt,
		TicketURL:  "https://tickets.example/" + externalID,
		Source:     "ticketmaster",
	}
}

func TestConcertStore_UpsertIsIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConcertStore(pool)
	ctx := context.Background()
	startsAt := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)

	first, err := store.UpsertByExternalID(ctx, testConcert("ticketmaster_ev-1", startsAt))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// Same external ID again: row is updated in place, not duplicated.
	updated := testConcert("ticketmaster_ev-1", startsAt)
	updated.VenueName = "Alexandra Palace"
	second, err := store.UpsertByExternalID(ctx, updated)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert must keep the original row id")
	assert.Equal(t, "Alexandra Palace", second.VenueName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestConcertStore_GetByExternalID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConcertStore(pool)
	ctx := context.Background()
	startsAt := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)

	_, err := store.UpsertByExternalID(ctx, testConcert("ticketmaster_ev-2", startsAt))
	require.NoError(t, err)

	got, err := store.GetByExternalID(ctx, "ticketmaster_ev-2")
	require.NoError(t, err)
	assert.Equal(t, "Radiohead Live", got.EventName)
	assert.True(t, got.StartsAt.Equal(startsAt))

	_, err = store.GetByExternalID(ctx, "ticketmaster_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConcertStore_DeletePast(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConcertStore(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := store.UpsertByExternalID(ctx, testConcert("ticketmaster_past", now.Add(-48*time.Hour)))
	require.NoError(t, err)
	_, err = store.UpsertByExternalID(ctx, testConcert("ticketmaster_future", now.Add(48*time.Hour)))
	require.NoError(t, err)

	deleted, err := store.DeletePast(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.GetByExternalID(ctx, "ticketmaster_past")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByExternalID(ctx, "ticketmaster_future")
	assert.NoError(t, err)
}
