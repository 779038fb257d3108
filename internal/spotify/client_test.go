// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

// testServer serves both the token endpoint and the API under one host.
type testServer struct {
	*httptest.Server
	tokenRequests atomic.Int64
	apiRequests   atomic.Int64
	apiHandler    http.HandlerFunc
}

func newTestServer(t *testing.T, apiHandler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{apiHandler: apiHandler}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			ts.tokenRequests.Add(1)
			if u, p, ok := r.BasicAuth(); !ok || u != "client-id" || p != "client-secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"access_token": "test-token", "token_type": "Bearer", "expires_in": 3600}`)
			return
		}
		ts.apiRequests.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		ts.apiHandler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, ts *testServer) *Client {
	t.Helper()
	client := NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      ts.URL,
		TokenURL:     ts.URL + "/token",
		Burst:        1000, // tests should not wait on the limiter
	}, cache.New(time.Hour))
	client.retryer.BaseDelay = 5 * time.Millisecond
	return client
}

func TestTokenRequestedOnceAndReused(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "abc", "name": "Artist", "popularity": 1, "followers": {"total": 10}}`)
	})
	client := newTestClient(t, ts)

	for i := 0; i < 3; i++ {
		if _, err := client.GetArtist(context.Background(), fmt.Sprintf("id-%d", i)); err != nil {
			t.Fatalf("GetArtist() error = %v", err)
		}
	}

	if n := ts.tokenRequests.Load(); n != 1 {
		t.Errorf("token requests = %d, want 1", n)
	}
	if n := ts.apiRequests.Load(); n != 3 {
		t.Errorf("api requests = %d, want 3", n)
	}
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "abc", "name": "Artist"}`)
	})
	client := newTestClient(t, ts)

	current := time.Now()
	client.now = func() time.Time { return current }

	if _, err := client.GetArtist(context.Background(), "one"); err != nil {
		t.Fatalf("GetArtist() error = %v", err)
	}

	current = current.Add(56 * time.Minute)
	if _, err := client.GetArtist(context.Background(), "two"); err != nil {
		t.Fatalf("GetArtist() error = %v", err)
	}

	if n := ts.tokenRequests.Load(); n != 2 {
		t.Errorf("token requests = %d, want 2 (refresh after expiry)", n)
	}
}

func TestMissingCredentialsFailOnFirstUse(t *testing.T) {
	// Construction succeeds so deployments without Spotify still start.
	client := NewClient(Config{}, cache.New(time.Hour))

	_, err := client.GetArtist(context.Background(), "abc")
	var cfgErr *upstream.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestSearchArtists(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("type") != "artist" {
			t.Errorf("type = %q", q.Get("type"))
		}
		if q.Get("q") != "Portishead" {
			t.Errorf("q = %q", q.Get("q"))
		}
		fmt.Fprint(w, `{"artists": {"items": [{
			"id": "6liAMWkVf5LH7YR9yfFy1Y",
			"name": "Portishead",
			"genres": ["trip hop", "electronica"],
			"popularity": 71,
			"followers": {"total": 1500000},
			"images": [{"url": "https://img.example/p.jpg", "width": 640, "height": 640}],
			"external_urls": {"spotify": "https://open.spotify.com/artist/6liAMWkVf5LH7YR9yfFy1Y"}
		}]}}`)
	})
	client := newTestClient(t, ts)

	records, err := client.SearchArtists(context.Background(), "Portishead", 5)
	if err != nil {
		t.Fatalf("SearchArtists() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.SpotifyID != "6liAMWkVf5LH7YR9yfFy1Y" {
		t.Errorf("SpotifyID = %q", rec.SpotifyID)
	}
	if rec.Followers != 1500000 {
		t.Errorf("Followers = %d", rec.Followers)
	}
	if len(rec.Genres) != 2 || rec.Genres[0] != "trip hop" {
		t.Errorf("Genres = %v", rec.Genres)
	}
	if rec.SpotifyURL == "" {
		t.Error("SpotifyURL is empty")
	}

	// Cached on repeat.
	if _, err := client.SearchArtists(context.Background(), "portishead", 5); err != nil {
		t.Fatalf("cached SearchArtists() error = %v", err)
	}
	if n := ts.apiRequests.Load(); n != 1 {
		t.Errorf("api requests = %d, want 1", n)
	}
}

func TestGetArtistAlbumsSortedNewestFirst(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [
			{"id": "old", "name": "Debut", "album_type": "album", "release_date": "1994-08-22", "release_date_precision": "day"},
			{"id": "new", "name": "Third", "album_type": "album", "release_date": "2008-04-28", "release_date_precision": "day"},
			{"id": "mid", "name": "Portishead", "album_type": "album", "release_date": "1997", "release_date_precision": "year"}
		]}`)
	})
	client := newTestClient(t, ts)

	albums, err := client.GetArtistAlbums(context.Background(), "artist-id", "", 20)
	if err != nil {
		t.Fatalf("GetArtistAlbums() error = %v", err)
	}
	if len(albums) != 3 {
		t.Fatalf("got %d albums, want 3", len(albums))
	}
	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if albums[i].SpotifyID != want {
			t.Errorf("albums[%d] = %q, want %q", i, albums[i].SpotifyID, want)
		}
	}
}

func TestGetArtistAlbumsGroupsFilter(t *testing.T) {
	var gotGroups atomic.Value
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotGroups.Store(r.URL.Query().Get("include_groups"))
		fmt.Fprint(w, `{"items": []}`)
	})
	client := newTestClient(t, ts)

	// Empty filter selects the default groups.
	if _, err := client.GetArtistAlbums(context.Background(), "artist-id", "", 20); err != nil {
		t.Fatalf("GetArtistAlbums() error = %v", err)
	}
	if got := gotGroups.Load(); got != "album,single" {
		t.Errorf("include_groups = %v, want album,single", got)
	}

	// An explicit filter is passed through and cached separately.
	if _, err := client.GetArtistAlbums(context.Background(), "artist-id", "compilation", 20); err != nil {
		t.Fatalf("GetArtistAlbums() error = %v", err)
	}
	if got := gotGroups.Load(); got != "compilation" {
		t.Errorf("include_groups = %v, want compilation", got)
	}
	if n := ts.apiRequests.Load(); n != 2 {
		t.Errorf("api requests = %d, want 2 (distinct cache entries per filter)", n)
	}

	// Repeating either filter is a cache hit.
	if _, err := client.GetArtistAlbums(context.Background(), "artist-id", "compilation", 20); err != nil {
		t.Fatalf("GetArtistAlbums() error = %v", err)
	}
	if n := ts.apiRequests.Load(); n != 2 {
		t.Errorf("api requests = %d, want 2 (repeat served from cache)", n)
	}
}

func TestGetAlbumWithTracks(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums/album-id" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"id": "album-id",
			"name": "Dummy",
			"album_type": "album",
			"release_date": "1994-08-22",
			"release_date_precision": "day",
			"total_tracks": 2,
			"label": "Go! Beat",
			"popularity": 70,
			"artists": [{"id": "artist-id", "name": "Portishead"}],
			"tracks": {"items": [
				{"id": "t1", "name": "Mysterons", "track_number": 1, "duration_ms": 306000},
				{"id": "t2", "name": "Sour Times", "track_number": 2, "duration_ms": 255000}
			]}
		}`)
	})
	client := newTestClient(t, ts)

	album, err := client.GetAlbum(context.Background(), "album-id")
	if err != nil {
		t.Fatalf("GetAlbum() error = %v", err)
	}
	if album.Label != "Go! Beat" {
		t.Errorf("Label = %q", album.Label)
	}
	if len(album.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(album.Tracks))
	}
	if album.Tracks[1].Name != "Sour Times" || album.Tracks[1].TrackNumber != 2 {
		t.Errorf("Tracks[1] = %+v", album.Tracks[1])
	}
	if len(album.Artists) != 1 || album.Artists[0].Name != "Portishead" {
		t.Errorf("Artists = %v", album.Artists)
	}
}

func TestGetNewReleases(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/browse/new-releases" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("country"); got != "GB" {
			t.Errorf("country = %q", got)
		}
		fmt.Fprint(w, `{"albums": {"items": [
			{"id": "nr1", "name": "Fresh", "album_type": "single", "release_date": "2026-08-28", "release_date_precision": "day"}
		]}}`)
	})
	client := newTestClient(t, ts)

	albums, err := client.GetNewReleases(context.Background(), "GB", 10, 0)
	if err != nil {
		t.Fatalf("GetNewReleases() error = %v", err)
	}
	if len(albums) != 1 || albums[0].SpotifyID != "nr1" {
		t.Errorf("albums = %v", albums)
	}
}

func TestGetNewReleasesPaged(t *testing.T) {
	var gotOffset atomic.Value
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotOffset.Store(r.URL.Query().Get("offset"))
		fmt.Fprint(w, `{"albums": {"items": []}}`)
	})
	client := newTestClient(t, ts)

	if _, err := client.GetNewReleases(context.Background(), "GB", 10, 20); err != nil {
		t.Fatalf("GetNewReleases() error = %v", err)
	}
	if got := gotOffset.Load(); got != "20" {
		t.Errorf("offset = %v, want 20", got)
	}

	// Pages are cached independently; a different offset goes upstream.
	if _, err := client.GetNewReleases(context.Background(), "GB", 10, 30); err != nil {
		t.Fatalf("GetNewReleases() error = %v", err)
	}
	if got := gotOffset.Load(); got != "30" {
		t.Errorf("offset = %v, want 30", got)
	}
	if n := ts.apiRequests.Load(); n != 2 {
		t.Errorf("api requests = %d, want 2", n)
	}

	if _, err := client.GetNewReleases(context.Background(), "GB", 10, 20); err != nil {
		t.Fatalf("GetNewReleases() error = %v", err)
	}
	if n := ts.apiRequests.Load(); n != 2 {
		t.Errorf("api requests = %d, want 2 (repeat page served from cache)", n)
	}
}

func TestGetArtistNotFound(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := newTestClient(t, ts)

	_, err := client.GetArtist(context.Background(), "missing")
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUnauthorizedInvalidatesTokenAndRetries(t *testing.T) {
	var apiCalls atomic.Int64
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id": "abc", "name": "Artist"}`)
	})
	client := newTestClient(t, ts)

	if _, err := client.GetArtist(context.Background(), "abc"); err != nil {
		t.Fatalf("GetArtist() error = %v", err)
	}
	if n := ts.tokenRequests.Load(); n != 2 {
		t.Errorf("token requests = %d, want 2 (re-auth after 401)", n)
	}
}
