// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

/*
client.go - MusicBrainz WS/2 API Client

Provides artist identity lookups against the MusicBrainz web service:
scored name search, full record fetch by MBID, and best-match selection.

MusicBrainz etiquette requires a descriptive User-Agent and at most one
request per second, both enforced here.

API Reference: https://musicbrainz.org/doc/MusicBrainz_API
*/

package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

const apiName = "musicbrainz"

// defaultSearchLimit is used when the caller passes limit <= 0.
const defaultSearchLimit = 10

// bestMatchLimit bounds the candidate set for best-match selection.
const bestMatchLimit = 5

// Config carries the settings the client needs. UserAgent is mandatory.
type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RatePerSecond  float64
	Burst          int
	MatchThreshold int
	CacheTTL       time.Duration
}

// Client queries the MusicBrainz WS/2 API. Responses are cached by
// normalized artist name (searches) and MBID (record fetches), so
// repeated lookups within the TTL never touch the network.
type Client struct {
	baseURL        string
	userAgent      string
	httpClient     *http.Client
	bucket         *upstream.TokenBucket
	retryer        *upstream.Retryer
	cache          *cache.Cache
	cacheTTL       time.Duration
	matchThreshold int
}

// NewClient creates a MusicBrainz client. It returns a configuration
// error when the User-Agent is missing, since MusicBrainz rejects
// anonymous clients.
func NewClient(cfg Config, store *cache.Cache) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, &upstream.ConfigurationError{Msg: "musicbrainz user agent is required"}
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://musicbrainz.org/ws/2"
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = 80
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		bucket:         upstream.NewTokenBucket(apiName, cfg.Burst, cfg.RatePerSecond),
		retryer:        upstream.NewRetryer(apiName),
		cache:          store,
		cacheTTL:       cfg.CacheTTL,
		matchThreshold: cfg.MatchThreshold,
	}, nil
}

// wire types for the WS/2 JSON responses

type searchResponse struct {
	Artists []wireArtist `json:"artists"`
}

type wireArtist struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SortName       string         `json:"sort-name"`
	Type           string         `json:"type"`
	Country        string         `json:"country"`
	Disambiguation string         `json:"disambiguation"`
	Score          int            `json:"score"`
	Aliases        []wireAlias    `json:"aliases"`
	LifeSpan       *wireLifeSpan  `json:"life-span"`
	Tags           []wireNamedRef `json:"tags"`
	Genres         []wireNamedRef `json:"genres"`
}

type wireAlias struct {
	Name string `json:"name"`
}

type wireLifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
	Ended bool   `json:"ended"`
}

type wireNamedRef struct {
	Name string `json:"name"`
}

// SearchArtists runs a scored name search and returns up to limit
// candidates in the order MusicBrainz ranked them. limit <= 0 falls
// back to defaultSearchLimit.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]models.CandidateMatch, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	cacheKey := "mb:search:" + strings.ToLower(name) + ":" + strconv.Itoa(limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("identity").Inc()
		return cached.([]models.CandidateMatch), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("identity").Inc()

	query := url.Values{}
	query.Set("query", "artist:"+name)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("fmt", "json")

	var parsed searchResponse
	if err := c.getJSON(ctx, "search_artists", "/artist?"+query.Encode(), &parsed); err != nil {
		return nil, err
	}

	matches := make([]models.CandidateMatch, 0, len(parsed.Artists))
	for _, a := range parsed.Artists {
		matches = append(matches, models.CandidateMatch{
			MBID:           a.ID,
			Name:           a.Name,
			SortName:       a.SortName,
			Type:           a.Type,
			Country:        a.Country,
			Disambiguation: a.Disambiguation,
			Score:          a.Score,
			Aliases:        aliasNames(a.Aliases),
		})
	}

	c.cache.SetWithTTL(cacheKey, matches, c.cacheTTL)
	return matches, nil
}

// GetArtistByMBID fetches the full artist record, including aliases,
// tags, and genres. Returns upstream.ErrNotFound for unknown MBIDs.
func (c *Client) GetArtistByMBID(ctx context.Context, mbid string) (*models.ArtistDetail, error) {
	cacheKey := "mb:artist:" + mbid
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("identity").Inc()
		return cached.(*models.ArtistDetail), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("identity").Inc()

	query := url.Values{}
	query.Set("inc", "aliases tags genres")
	query.Set("fmt", "json")

	var a wireArtist
	if err := c.getJSON(ctx, "get_artist", "/artist/"+url.PathEscape(mbid)+"?"+query.Encode(), &a); err != nil {
		return nil, err
	}

	detail := &models.ArtistDetail{
		MBID:           a.ID,
		Name:           a.Name,
		SortName:       a.SortName,
		Type:           a.Type,
		Country:        a.Country,
		Disambiguation: a.Disambiguation,
		Aliases:        aliasNames(a.Aliases),
		Tags:           refNames(a.Tags),
		Genres:         refNames(a.Genres),
	}
	if a.LifeSpan != nil {
		detail.LifeSpan = &models.LifeSpan{
			Begin: a.LifeSpan.Begin,
			End:   a.LifeSpan.End,
			Ended: a.LifeSpan.Ended,
		}
	}

	c.cache.SetWithTTL(cacheKey, detail, c.cacheTTL)
	return detail, nil
}

// FindBestMatch picks the most plausible candidate for a raw artist name:
// the top-scored result when its score clears the match threshold,
// otherwise the first case-insensitive exact name match, otherwise the
// top-scored result. Candidates are re-sorted by score here; the search
// endpoint does not guarantee score order.
// Search failures and empty result sets both yield nil; callers treat a
// nil match as "no canonical identity" and fall back to other sources.
func (c *Client) FindBestMatch(ctx context.Context, name string) *models.CandidateMatch {
	matches, err := c.SearchArtists(ctx, name, bestMatchLimit)
	if err != nil {
		logging.Warn().Err(err).Str("artist", name).Msg("MusicBrainz search failed, no canonical match")
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	// Sort a copy; the original slice is shared with the cache.
	ranked := make([]models.CandidateMatch, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if ranked[0].Score >= c.matchThreshold {
		return &ranked[0]
	}

	for i := range ranked {
		if strings.EqualFold(ranked[i].Name, name) {
			return &ranked[i]
		}
	}

	return &ranked[0]
}

// getJSON performs a rate-limited, retried GET and decodes the body.
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

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &upstream.UnavailableError{API: apiName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode musicbrainz response: %w", err)
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
			return fmt.Errorf("musicbrainz returned status %d (failed to read body)", resp.StatusCode)
		}
		return fmt.Errorf("musicbrainz returned status %d: %s", resp.StatusCode, string(body))
	}
}

func aliasNames(aliases []wireAlias) []string {
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

func refNames(refs []wireNamedRef) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}
