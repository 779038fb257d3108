// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package ticketmaster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Burst:   1000, // tests should not wait on the limiter
	})
	client.retryer.BaseDelay = 5 * time.Millisecond
	return client
}

const eventJSON = `{
	"id": "vvG1zZ9pke6e-W",
	"name": "Radiohead at the Garden",
	"url": "https://www.ticketmaster.com/event/vvG1zZ9pke6e-W",
	"dates": {"start": {"dateTime": "2026-11-03T19:30:00Z"}},
	"_embedded": {
		"venues": [{
			"name": "Madison Square Garden",
			"city": {"name": "New York"},
			"state": {"name": "New York", "stateCode": "NY"},
			"country": {"name": "United States Of America", "countryCode": "US"},
			"location": {"latitude": "40.750504", "longitude": "-73.993439"}
		}],
		"attractions": [{"name": "Radiohead"}, {"name": "The Smile"}]
	}
}`

func TestSearchEvents(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events.json" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q", q.Get("apikey"))
		}
		if q.Get("keyword") != "Radiohead" {
			t.Errorf("keyword = %q", q.Get("keyword"))
		}
		if q.Get("classificationName") != "music" {
			t.Errorf("classificationName = %q", q.Get("classificationName"))
		}
		fmt.Fprintf(w, `{"_embedded": {"events": [%s]}}`, eventJSON)
	}))

	events, err := client.SearchEvents(context.Background(), "Radiohead", "", "")
	if err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.ExternalID != "ticketmaster_vvG1zZ9pke6e-W" {
		t.Errorf("ExternalID = %q", e.ExternalID)
	}
	if e.Source != "ticketmaster" {
		t.Errorf("Source = %q", e.Source)
	}
	if e.Venue.Name != "Madison Square Garden" || e.Venue.City != "New York" {
		t.Errorf("Venue = %+v", e.Venue)
	}
	if e.Venue.Latitude == 0 || e.Venue.Longitude == 0 {
		t.Errorf("Venue coordinates not parsed: %+v", e.Venue)
	}
	want := time.Date(2026, 11, 3, 19, 30, 0, 0, time.UTC)
	if !e.StartsAt.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", e.StartsAt, want)
	}
	if e.Lineup != "Radiohead, The Smile" {
		t.Errorf("Lineup = %q", e.Lineup)
	}
}

func TestSearchEventsStableExternalID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"_embedded": {"events": [%s]}}`, eventJSON)
	}))

	first, err := client.SearchEvents(context.Background(), "Radiohead", "", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := client.SearchEvents(context.Background(), "Radiohead", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ExternalID != second[0].ExternalID {
		t.Errorf("external IDs differ across runs: %q vs %q", first[0].ExternalID, second[0].ExternalID)
	}
}

func TestSearchEventsMissingFieldsKeepZeroValues(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded": {"events": [{"id": "bare", "name": "Mystery Show"}]}}`)
	}))

	events, err := client.SearchEvents(context.Background(), "Someone", "", "")
	if err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.ExternalID != "ticketmaster_bare" {
		t.Errorf("ExternalID = %q", e.ExternalID)
	}
	if e.Venue.Name != "" || e.Venue.City != "" {
		t.Errorf("Venue should be zero-valued, got %+v", e.Venue)
	}
	if !e.StartsAt.IsZero() {
		t.Errorf("StartsAt should be zero, got %v", e.StartsAt)
	}
}

func TestSearchEventsLocalDateFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded": {"events": [
			{"id": "ld", "name": "Festival Day", "dates": {"start": {"localDate": "2026-09-12"}}}
		]}}`)
	}))

	events, err := client.SearchEvents(context.Background(), "Someone", "", "")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	if !events[0].StartsAt.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", events[0].StartsAt, want)
	}
}

func TestSearchEventsEmptyResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A query with no hits has no _embedded key at all.
		fmt.Fprint(w, `{"page": {"totalElements": 0}}`)
	}))

	events, err := client.SearchEvents(context.Background(), "Nobody", "", "")
	if err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestSearchEventsLocationFilter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("city") != "Berlin" {
			t.Errorf("city = %q", q.Get("city"))
		}
		if q.Get("countryCode") != "DE" {
			t.Errorf("countryCode = %q", q.Get("countryCode"))
		}
		fmt.Fprint(w, `{"_embedded": {"events": []}}`)
	}))

	if _, err := client.SearchEvents(context.Background(), "Someone", "Berlin", "DE"); err != nil {
		t.Fatal(err)
	}
}

func TestSearchEventsMissingAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://app.ticketmaster.com/discovery/v2"})

	_, err := client.SearchEvents(context.Background(), "Someone", "", "")
	var cfgErr *upstream.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestSearchEventsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.SearchEvents(context.Background(), "Someone", "", "")
	var ua *upstream.UnavailableError
	if !errors.As(err, &ua) {
		t.Fatalf("error = %v, want UnavailableError", err)
	}
}

func TestBreakerClientPassesThrough(t *testing.T) {
	inner := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"_embedded": {"events": [%s]}}`, eventJSON)
	}))
	breaker := NewBreakerClient(inner)

	events, err := breaker.SearchEvents(context.Background(), "Radiohead", "", "")
	if err != nil {
		t.Fatalf("SearchEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}
