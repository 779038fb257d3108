// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

/*
client.go - Ticketmaster Discovery API Client

Fetches upcoming events and normalizes them into the common concert
shape. External IDs are prefixed with the source name so events from
different ticketing providers can never collide.

API Reference: https://developer.ticketmaster.com/products-and-docs/apis/discovery-api/v2/
*/

package ticketmaster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

const apiName = "ticketmaster"

// SourceName prefixes every external event ID produced by this client.
const SourceName = "ticketmaster"

// pageSize caps events fetched per query.
const pageSize = 50

// Config carries the settings the client needs.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client queries the Ticketmaster Discovery API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	bucket     *upstream.TokenBucket
	retryer    *upstream.Retryer
}

// NewClient creates a Ticketmaster client. A missing API key is not an
// error here; requests fail with a configuration error instead, which
// callers downgrade to empty results.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://app.ticketmaster.com/discovery/v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 100
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		bucket:  upstream.NewTokenBucket(apiName, cfg.Burst, cfg.RatePerSecond),
		retryer: upstream.NewRetryer(apiName),
	}
}

// wire types for Discovery API responses

type eventsResponse struct {
	Embedded struct {
		Events []wireEvent `json:"events"`
	} `json:"_embedded"`
}

type wireEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues      []wireVenue      `json:"venues"`
		Attractions []wireAttraction `json:"attractions"`
	} `json:"_embedded"`
}

type wireVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

type wireAttraction struct {
	Name string `json:"name"`
}

// SearchEvents queries upcoming music events by artist keyword and an
// optional city and country filter. All results are normalized; events
// with missing venue or date fields keep zero values instead of being
// dropped.
func (c *Client) SearchEvents(ctx context.Context, artistName, city, countryCode string) ([]models.NormalizedEvent, error) {
	if c.apiKey == "" {
		return nil, &upstream.ConfigurationError{Msg: "ticketmaster api key is not configured"}
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("classificationName", "music")
	query.Set("size", strconv.Itoa(pageSize))
	query.Set("sort", "date,asc")
	if artistName != "" {
		query.Set("keyword", artistName)
	}
	if city != "" {
		query.Set("city", city)
	}
	if countryCode != "" {
		query.Set("countryCode", countryCode)
	}

	var parsed eventsResponse
	if err := c.getJSON(ctx, "search_events", "/events.json?"+query.Encode(), &parsed); err != nil {
		return nil, err
	}

	events := make([]models.NormalizedEvent, 0, len(parsed.Embedded.Events))
	for _, e := range parsed.Embedded.Events {
		events = append(events, normalizeEvent(e, artistName))
	}
	return events, nil
}

// normalizeEvent maps a provider event into the common concert shape.
func normalizeEvent(e wireEvent, artistName string) models.NormalizedEvent {
	event := models.NormalizedEvent{
		ExternalID: SourceName + "_" + e.ID,
		ArtistName: artistName,
		EventName:  e.Name,
		TicketURL:  e.URL,
		Source:     SourceName,
	}

	if raw := e.Dates.Start.DateTime; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			event.StartsAt = ts
		}
	} else if raw := e.Dates.Start.LocalDate; raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			event.StartsAt = ts
		}
	}

	if len(e.Embedded.Venues) > 0 {
		v := e.Embedded.Venues[0]
		event.Venue = models.Venue{
			Name:    v.Name,
			City:    v.City.Name,
			Region:  v.State.Name,
			Country: v.Country.Name,
		}
		if lat, err := strconv.ParseFloat(v.Location.Latitude, 64); err == nil {
			event.Venue.Latitude = lat
		}
		if lon, err := strconv.ParseFloat(v.Location.Longitude, 64); err == nil {
			event.Venue.Longitude = lon
		}
	}

	if len(e.Embedded.Attractions) > 0 {
		names := make([]string, 0, len(e.Embedded.Attractions))
		for _, a := range e.Embedded.Attractions {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		event.Lineup = strings.Join(names, ", ")
	}

	return event
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint string, out interface{}) error {
	start := time.Now()
	err := c.retryer.Do(ctx, func() error {
		if err := c.bucket.Wait(ctx); err != nil {
			return err
		}
		return c.doRequest(ctx, endpoint, out)
	})
	metrics.UpstreamRequestDuration.WithLabelValues(apiName, operation).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(apiName, operation, outcome).Inc()
	return err
}

func (c *Client) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &upstream.UnavailableError{API: apiName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode ticketmaster response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return upstream.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &upstream.RateLimitedError{API: apiName, RetryAfter: upstream.RetryAfter(resp)}
	case resp.StatusCode >= 500:
		return &upstream.UnavailableError{API: apiName, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return fmt.Errorf("ticketmaster returned status %d (failed to read body)", resp.StatusCode)
		}
		return fmt.Errorf("ticketmaster returned status %d: %s", resp.StatusCode, string(body))
	}
}
