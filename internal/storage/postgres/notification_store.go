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

// NotificationStore implements storage.NotificationStore using
// PostgreSQL. The (user_id, concert_id) unique constraint is the dedup
// mechanism: a second notification for the same pair fails with
// ErrDuplicateKey instead of double-alerting the user.
type NotificationStore struct {
	pool *Pool
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(pool *Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NotificationStore = (*NotificationStore)(nil)

// Create inserts a notification. Returns ErrDuplicateKey when the user
// was already notified about the concert.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, concert_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, false, now())
	`

	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, query, id, n.UserID, n.ConcertID, n.Message)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ExistsForUserAndConcert reports whether the pair was already notified.
func (s *NotificationStore) ExistsForUserAndConcert(ctx context.Context, userID, concertID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications WHERE user_id = $1 AND concert_id = $2
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID, concertID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check notification exists: %w", err)
	}
	return exists, nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationStore) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, concert_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ConcertID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}
