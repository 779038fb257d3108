// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package upstream

import (
	"net/http"
	"strconv"
	"time"
)

// RetryAfter parses the Retry-After header of a 429 response, given in
// seconds. Zero means the header was absent or malformed; the retry
// wrapper then falls back to exponential backoff.
func RetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
