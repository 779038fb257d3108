// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

/*
client.go - Spotify Web API Client

Catalog metadata lookups: artist search, artist records, albums, and new
releases. Authentication uses the client credentials grant; the access
token is cached and refreshed shortly before Spotify's one-hour expiry.

API Reference: https://developer.spotify.com/documentation/web-api
*/

package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

const apiName = "spotify"

// DefaultSearchLimit is used when a caller passes limit <= 0.
const DefaultSearchLimit = 10

// Config carries the settings the client needs. Credentials may be left
// empty; the client then fails with a configuration error on first use
// instead of at startup.
type Config struct {
	ClientID      string
	ClientSecret  string
	BaseURL       string
	TokenURL      string
	Timeout       time.Duration
	TokenTTL      time.Duration
	RatePerSecond float64
	Burst         int
	ArtistTTL     time.Duration
	AlbumTTL      time.Duration
}

// Client queries the Spotify Web API. Artist records are cached for
// ArtistTTL and album data for AlbumTTL, keyed by Spotify ID or
// normalized query.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	httpClient   *http.Client
	bucket       *upstream.TokenBucket
	retryer      *upstream.Retryer
	cache        *cache.Cache
	artistTTL    time.Duration
	albumTTL     time.Duration
	tokenTTL     time.Duration

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	now         func() time.Time
}

// NewClient creates a Spotify client.
func NewClient(cfg Config, store *cache.Cache) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.spotify.com/v1"
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = "https://accounts.spotify.com/api/token"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 55 * time.Minute
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 3
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 180
	}
	if cfg.ArtistTTL <= 0 {
		cfg.ArtistTTL = time.Hour
	}
	if cfg.AlbumTTL <= 0 {
		cfg.AlbumTTL = 12 * time.Hour
	}

	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		bucket:    upstream.NewTokenBucket(apiName, cfg.Burst, cfg.RatePerSecond),
		retryer:   upstream.NewRetryer(apiName),
		cache:     store,
		artistTTL: cfg.ArtistTTL,
		albumTTL:  cfg.AlbumTTL,
		tokenTTL:  cfg.TokenTTL,
		now:       time.Now,
	}
}

// wire types for Web API responses

type wireArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
	Images       []wireImage `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type wireImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type wireAlbum struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	AlbumType            string      `json:"album_type"`
	ReleaseDate          string      `json:"release_date"`
	ReleaseDatePrecision string      `json:"release_date_precision"`
	TotalTracks          int         `json:"total_tracks"`
	Images               []wireImage `json:"images"`
	ExternalURLs         struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
	Label      string `json:"label"`
	Popularity int    `json:"popularity"`
	Tracks     struct {
		Items []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			TrackNumber int    `json:"track_number"`
			DurationMS  int    `json:"duration_ms"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchArtists searches the catalog by artist name, best matches first.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]models.MetadataRecord, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	cacheKey := fmt.Sprintf("spotify:search:%s:%d", strings.ToLower(name), limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("metadata").Inc()
		return cached.([]models.MetadataRecord), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("metadata").Inc()

	query := url.Values{}
	query.Set("q", name)
	query.Set("type", "artist")
	query.Set("limit", strconv.Itoa(limit))

	var parsed struct {
		Artists struct {
			Items []wireArtist `json:"items"`
		} `json:"artists"`
	}
	if err := c.getJSON(ctx, "search_artists", "/search?"+query.Encode(), &parsed); err != nil {
		return nil, err
	}

	records := make([]models.MetadataRecord, 0, len(parsed.Artists.Items))
	for _, a := range parsed.Artists.Items {
		records = append(records, toMetadataRecord(a))
	}

	c.cache.SetWithTTL(cacheKey, records, c.artistTTL)
	return records, nil
}

// GetArtist fetches a single artist record by Spotify ID.
func (c *Client) GetArtist(ctx context.Context, id string) (*models.MetadataRecord, error) {
	cacheKey := "spotify:artist:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("metadata").Inc()
		return cached.(*models.MetadataRecord), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("metadata").Inc()

	var a wireArtist
	if err := c.getJSON(ctx, "get_artist", "/artists/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}

	record := toMetadataRecord(a)
	c.cache.SetWithTTL(cacheKey, &record, c.artistTTL)
	return &record, nil
}

// GetArtistAlbums returns an artist's releases, newest first. groups
// filters by release type ("album", "single", "appears_on",
// "compilation", comma-separated); empty means albums and singles.
func (c *Client) GetArtistAlbums(ctx context.Context, id, groups string, limit int) ([]models.Album, error) {
	if limit <= 0 {
		limit = 20
	}
	if groups == "" {
		groups = "album,single"
	}

	cacheKey := fmt.Sprintf("spotify:albums:%s:%s:%d", id, groups, limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("albums").Inc()
		return cached.([]models.Album), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("albums").Inc()

	query := url.Values{}
	query.Set("include_groups", groups)
	query.Set("limit", strconv.Itoa(limit))

	var parsed struct {
		Items []wireAlbum `json:"items"`
	}
	endpoint := "/artists/" + url.PathEscape(id) + "/albums?" + query.Encode()
	if err := c.getJSON(ctx, "get_artist_albums", endpoint, &parsed); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(parsed.Items))
	for _, a := range parsed.Items {
		albums = append(albums, toAlbum(a))
	}

	// Spotify's ordering is not guaranteed; present newest releases first.
	// Date strings compare correctly regardless of precision (YYYY,
	// YYYY-MM, YYYY-MM-DD).
	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].ReleaseDate > albums[j].ReleaseDate
	})

	c.cache.SetWithTTL(cacheKey, albums, c.albumTTL)
	return albums, nil
}

// GetAlbum fetches a full album record including its track listing.
func (c *Client) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	cacheKey := "spotify:album:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("albums").Inc()
		return cached.(*models.Album), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("albums").Inc()

	var a wireAlbum
	if err := c.getJSON(ctx, "get_album", "/albums/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}

	album := toAlbum(a)
	c.cache.SetWithTTL(cacheKey, &album, c.albumTTL)
	return &album, nil
}

// SearchAlbums searches the catalog by album name.
func (c *Client) SearchAlbums(ctx context.Context, q string, limit int) ([]models.Album, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	cacheKey := fmt.Sprintf("spotify:album_search:%s:%d", strings.ToLower(q), limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("albums").Inc()
		return cached.([]models.Album), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("albums").Inc()

	query := url.Values{}
	query.Set("q", q)
	query.Set("type", "album")
	query.Set("limit", strconv.Itoa(limit))

	var parsed struct {
		Albums struct {
			Items []wireAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := c.getJSON(ctx, "search_albums", "/search?"+query.Encode(), &parsed); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(parsed.Albums.Items))
	for _, a := range parsed.Albums.Items {
		albums = append(albums, toAlbum(a))
	}

	c.cache.SetWithTTL(cacheKey, albums, c.albumTTL)
	return albums, nil
}

// GetNewReleases returns recently released albums, optionally scoped to
// a two-letter country code. offset pages through the feed.
func (c *Client) GetNewReleases(ctx context.Context, country string, limit, offset int) ([]models.Album, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("spotify:new_releases:%s:%d:%d", strings.ToLower(country), limit, offset)
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("albums").Inc()
		return cached.([]models.Album), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("albums").Inc()

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	if country != "" {
		query.Set("country", country)
	}

	var parsed struct {
		Albums struct {
			Items []wireAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := c.getJSON(ctx, "get_new_releases", "/browse/new-releases?"+query.Encode(), &parsed); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(parsed.Albums.Items))
	for _, a := range parsed.Albums.Items {
		albums = append(albums, toAlbum(a))
	}

	c.cache.SetWithTTL(cacheKey, albums, c.albumTTL)
	return albums, nil
}

// token returns a valid access token, requesting a fresh one when the
// cached token is missing or expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", &upstream.ConfigurationError{Msg: "spotify client credentials are not configured"}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &upstream.UnavailableError{API: apiName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("spotify token request returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode spotify token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("spotify token response contained no access token")
	}

	c.accessToken = parsed.AccessToken
	c.tokenExpiry = c.now().Add(c.tokenTTL)
	return c.accessToken, nil
}

// getJSON performs a rate-limited, retried, authenticated GET.
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
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &upstream.UnavailableError{API: apiName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode spotify response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		// Token revoked or expired early; drop it so the next attempt
		// re-authenticates.
		c.invalidateToken()
		return &upstream.UnavailableError{API: apiName, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return upstream.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &upstream.RateLimitedError{API: apiName, RetryAfter: upstream.RetryAfter(resp)}
	case resp.StatusCode >= 500:
		return &upstream.UnavailableError{API: apiName, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return fmt.Errorf("spotify returned status %d (failed to read body)", resp.StatusCode)
		}
		return fmt.Errorf("spotify returned status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

func toMetadataRecord(a wireArtist) models.MetadataRecord {
	return models.MetadataRecord{
		SpotifyID:  a.ID,
		Name:       a.Name,
		Genres:     a.Genres,
		Popularity: a.Popularity,
		Followers:  a.Followers.Total,
		Images:     toImages(a.Images),
		SpotifyURL: a.ExternalURLs.Spotify,
	}
}

func toAlbum(a wireAlbum) models.Album {
	album := models.Album{
		SpotifyID:            a.ID,
		Name:                 a.Name,
		AlbumType:            a.AlbumType,
		ReleaseDate:          a.ReleaseDate,
		ReleaseDatePrecision: a.ReleaseDatePrecision,
		TotalTracks:          a.TotalTracks,
		Images:               toImages(a.Images),
		SpotifyURL:           a.ExternalURLs.Spotify,
		Label:                a.Label,
		Popularity:           a.Popularity,
	}
	for _, ar := range a.Artists {
		album.Artists = append(album.Artists, models.AlbumArtist{
			SpotifyID: ar.ID,
			Name:      ar.Name,
		})
	}
	for _, t := range a.Tracks.Items {
		album.Tracks = append(album.Tracks, models.Track{
			SpotifyID:   t.ID,
			Name:        t.Name,
			TrackNumber: t.TrackNumber,
			DurationMS:  t.DurationMS,
		})
	}
	return album
}

func toImages(images []wireImage) []models.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		out = append(out, models.Image{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
		})
	}
	return out
}
