// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/soundcheckhq/soundcheck/internal/validation"
)

// ResolveRequest is the body for POST /api/v1/artists/resolve.
type ResolveRequest struct {
	Name string `json:"name" validate:"required,min=1,max=500"`
}

// BatchResolveRequest is the body for POST /api/v1/artists/resolve/batch.
// The batch is capped at 50 names; each name can cost two upstream calls,
// so unbounded batches would starve the MusicBrainz token bucket.
type BatchResolveRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=50,dive,required,min=1,max=500"`
}

// MBIDParam validates the {id} path segment of metadata lookups when
// the ID type is "mbid", rejecting malformed MusicBrainz IDs before
// they reach the upstream.
type MBIDParam struct {
	ID string `validate:"required,mbid"`
}

// validateParams validates a path-parameter struct, writing the error
// response and returning false on failure.
func validateParams(rw *ResponseWriter, params interface{}) bool {
	if verr := validation.ValidateStruct(params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// decodeAndValidate decodes a JSON request body into dst and validates
// it. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	if r.Body == nil {
		rw.BadRequest("Request body is required")
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}

	return true
}

// queryInt parses an integer query parameter, returning def when absent
// and clamping to [1, max].
func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
