// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

// Package memory implements the storage interfaces on in-process maps.
// It backs unit tests and credential-less local development; semantics
// match the postgres implementation including duplicate-key behavior.
package memory

import (
	"sync"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/models"
)

// DB is the shared in-memory state behind the per-table stores.
type DB struct {
	mu            sync.RWMutex
	artists       map[string]models.Artist // keyed by external ID
	concerts      map[string]models.Concert
	notifications []models.Notification
	notified      map[string]struct{} // "userID|concertID"
	users         []models.User
	follows       map[string][]models.FollowedArtist
	now           func() time.Time
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		artists:  make(map[string]models.Artist),
		concerts: make(map[string]models.Concert),
		notified: make(map[string]struct{}),
		follows:  make(map[string][]models.FollowedArtist),
		now:      time.Now,
	}
}

// WithClock replaces the DB's time source.
func (db *DB) WithClock(now func() time.Time) *DB {
	db.now = now
	return db
}

// AddUser registers a user. Seeding helper.
func (db *DB) AddUser(u models.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = append(db.users, u)
}

// AddFollow registers a followed artist for a user. Seeding helper.
func (db *DB) AddFollow(userID string, f models.FollowedArtist) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.follows[userID] = append(db.follows[userID], f)
}

// ConcertCount reports the number of stored concerts.
func (db *DB) ConcertCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.concerts)
}

// NotificationCount reports the number of stored notifications.
func (db *DB) NotificationCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.notifications)
}
