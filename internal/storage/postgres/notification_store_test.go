// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/storage"
)

// seedUserAndConcert inserts the rows a notification depends on.
func seedUserAndConcert(t *testing.T, ctx context.Context, pool *Pool) (userID, concertID string) {
	t.Helper()

	userID = uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO users (id, email) VALUES ($1, $2)`, userID, userID+"@example.com")
	require.NoError(t, err)

	concert, err := NewConcertStore(pool).UpsertByExternalID(ctx, testConcert("ticketmaster_"+uuid.NewString(), time.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	return userID, concert.ID
}

func TestNotificationStore_CreateAndDedup(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()
	userID, concertID := seedUserAndConcert(t, ctx, pool)

	n := &models.Notification{
		UserID:    userID,
		ConcertID: concertID,
		Message:   "Radiohead announced a show near you",
	}
	require.NoError(t, store.Create(ctx, n))

	// Same (user, concert) pair again: rejected, user is not re-alerted.
	dup := &models.Notification{UserID: userID, ConcertID: concertID, Message: "duplicate"}
	err := store.Create(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	exists, err := store.ExistsForUserAndConcert(ctx, userID, concertID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsForUserAndConcert(ctx, userID, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNotificationStore_ListForUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()
	userID, concertID := seedUserAndConcert(t, ctx, pool)
	_, concertID2 := seedUserAndConcert(t, ctx, pool)

	require.NoError(t, store.Create(ctx, &models.Notification{UserID: userID, ConcertID: concertID, Message: "first"}))
	require.NoError(t, store.Create(ctx, &models.Notification{UserID: userID, ConcertID: concertID2, Message: "second"}))

	list, err := store.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, userID, n.UserID)
		assert.False(t, n.Read)
		assert.NotZero(t, n.CreatedAt)
	}
}

func TestNotificationStore_CascadeOnConcertDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()

	userID := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO users (id, email) VALUES ($1, $2)`, userID, userID+"@example.com")
	require.NoError(t, err)

	concerts := NewConcertStore(pool)
	past, err := concerts.UpsertByExternalID(ctx, testConcert("ticketmaster_gone", time.Now().Add(-24*time.Hour)))
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, &models.Notification{UserID: userID, ConcertID: past.ID, Message: "stale"}))

	_, err = concerts.DeletePast(ctx, time.Now())
	require.NoError(t, err)

	exists, err := store.ExistsForUserAndConcert(ctx, userID, past.ID)
	require.NoError(t, err)
	assert.False(t, exists, "dedup row must go with the deleted concert")
}
