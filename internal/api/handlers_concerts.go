// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"net/http"
	"strings"

	"github.com/soundcheckhq/soundcheck/internal/validation"
)

type concertLocationQuery struct {
	City        string `validate:"required,min=1,max=200"`
	CountryCode string `validate:"omitempty,country_code"`
}

// ArtistConcerts handles GET /api/v1/concerts?artist=<name>.
// Best-effort: ticketing outages surface as an empty list, never an error.
func (h *Handlers) ArtistConcerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	artist := strings.TrimSpace(r.URL.Query().Get("artist"))
	if artist == "" {
		rw.BadRequest("Query parameter \"artist\" is required")
		return
	}

	events := h.concerts.GetArtistConcerts(r.Context(), artist)
	rw.SuccessList(events, len(events))
}

// ConcertsByLocation handles GET /api/v1/concerts/location?city=<city>&country=<cc>.
func (h *Handlers) ConcertsByLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := concertLocationQuery{
		City:        strings.TrimSpace(r.URL.Query().Get("city")),
		CountryCode: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country"))),
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	events := h.concerts.GetConcertsByLocation(r.Context(), q.City, q.CountryCode)
	rw.SuccessList(events, len(events))
}
