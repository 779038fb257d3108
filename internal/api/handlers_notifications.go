// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soundcheckhq/soundcheck/internal/logging"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// UserNotifications handles GET /api/v1/users/{id}/notifications,
// newest first.
func (h *Handlers) UserNotifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.notifications == nil {
		rw.ServiceUnavailable("Concert alerts are not enabled")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		rw.BadRequest("User ID is required")
		return
	}

	limit := queryInt(r, "limit", defaultNotificationLimit, maxNotificationLimit)
	list, err := h.notifications.ListForUser(r.Context(), userID, limit)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Failed to list notifications")
		rw.InternalError("Failed to list notifications")
		return
	}

	rw.SuccessList(list, len(list))
}
