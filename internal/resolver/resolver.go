// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

/*
resolver.go - Cross-Source Artist Resolution

Merges the canonical MusicBrainz identity with Spotify catalog metadata
into one UnifiedArtist record. MusicBrainz wins for textual identity
fields, Spotify for catalog signals; an artist unknown to MusicBrainz
still resolves from Spotify alone, at reduced confidence.
*/

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soundcheckhq/soundcheck/internal/cache"
	"github.com/soundcheckhq/soundcheck/internal/logging"
	"github.com/soundcheckhq/soundcheck/internal/metrics"
	"github.com/soundcheckhq/soundcheck/internal/models"
	"github.com/soundcheckhq/soundcheck/internal/upstream"
)

// ErrArtistNotFound is returned when neither source knows the artist.
var ErrArtistNotFound = errors.New("artist not found")

// ResolutionError wraps a failure that aborted resolution entirely,
// after the metadata-only fallback also failed.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution failed for %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// IdentitySource is the MusicBrainz surface the resolver consumes.
type IdentitySource interface {
	FindBestMatch(ctx context.Context, name string) *models.CandidateMatch
	GetArtistByMBID(ctx context.Context, mbid string) (*models.ArtistDetail, error)
}

// MetadataSource is the Spotify surface the resolver consumes.
type MetadataSource interface {
	SearchArtists(ctx context.Context, name string, limit int) ([]models.MetadataRecord, error)
	GetArtist(ctx context.Context, id string) (*models.MetadataRecord, error)
}

// IDType selects which identifier namespace GetArtistMetadata queries.
type IDType string

const (
	IDTypeMBID    IDType = "mbid"
	IDTypeSpotify IDType = "spotify"
)

// Config tunes resolution behavior.
type Config struct {
	// FallbackConfidence is assigned to Spotify-only resolutions.
	FallbackConfidence int
	// CacheTTL bounds how long resolved artists and metadata views are
	// served without re-querying upstreams.
	CacheTTL time.Duration
}

// Resolver orchestrates the identity and metadata clients. Resolutions
// are cached by lowercased input name so repeated lookups for the same
// artist cost nothing.
type Resolver struct {
	identity           IdentitySource
	metadata           MetadataSource
	cache              *cache.Cache
	cacheTTL           time.Duration
	fallbackConfidence int
	now                func() time.Time
}

// New creates a Resolver.
func New(identity IdentitySource, metadata MetadataSource, store *cache.Cache, cfg Config) *Resolver {
	if cfg.FallbackConfidence <= 0 {
		cfg.FallbackConfidence = 50
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Resolver{
		identity:           identity,
		metadata:           metadata,
		cache:              store,
		cacheTTL:           cfg.CacheTTL,
		fallbackConfidence: cfg.FallbackConfidence,
		now:                time.Now,
	}
}

// ResolveArtist resolves a raw artist name into a unified record.
//
// The canonical identity is looked up first; when found, it anchors the
// record and Spotify contributes catalog fields. When MusicBrainz has
// no plausible match, or the merge path fails unexpectedly, resolution
// falls back to Spotify alone at reduced confidence. Only when both
// paths come up empty does the call fail.
func (r *Resolver) ResolveArtist(ctx context.Context, name string) (*models.UnifiedArtist, error) {
	cacheKey := "resolved:" + strings.ToLower(name)
	if cached, ok := r.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("resolved").Inc()
		return cached.(*models.UnifiedArtist), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("resolved").Inc()

	start := time.Now()
	artist, outcome, err := r.resolve(ctx, name)
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		return nil, err
	}

	r.cache.SetWithTTL(cacheKey, artist, r.cacheTTL)
	return artist, nil
}

func (r *Resolver) resolve(ctx context.Context, name string) (*models.UnifiedArtist, string, error) {
	candidate := r.identity.FindBestMatch(ctx, name)
	if candidate == nil {
		artist, err := r.resolveMetadataOnly(ctx, name)
		if err != nil {
			if errors.Is(err, ErrArtistNotFound) {
				return nil, "not_found", err
			}
			return nil, "failed", err
		}
		return artist, "spotify_only", nil
	}

	artist, err := r.merge(ctx, candidate)
	if err == nil {
		return artist, "merged", nil
	}

	// The merge path failing is unexpected (the metadata search inside
	// it already tolerates absence). Retry via the fallback before
	// giving up.
	logging.Warn().Err(err).Str("artist", name).Msg("Merge resolution failed, retrying metadata-only")
	artist, fbErr := r.resolveMetadataOnly(ctx, name)
	if fbErr != nil {
		return nil, "failed", &ResolutionError{Name: name, Err: err}
	}
	return artist, "spotify_only", nil
}

// merge builds a UnifiedArtist anchored on a MusicBrainz candidate,
// enriched with the Spotify record whose name matches the candidate's
// exactly (case-insensitive), or the top search hit.
func (r *Resolver) merge(ctx context.Context, candidate *models.CandidateMatch) (*models.UnifiedArtist, error) {
	records, err := r.metadata.SearchArtists(ctx, candidate.Name, 5)
	if err != nil {
		// A missing Spotify configuration or outage must not block a
		// perfectly good canonical identity.
		var cfgErr *upstream.ConfigurationError
		if !errors.As(err, &cfgErr) && !upstream.IsRetryable(err) {
			return nil, err
		}
		logging.Warn().Err(err).Str("artist", candidate.Name).Msg("Spotify enrichment unavailable, resolving identity-only")
		records = nil
	}

	var record *models.MetadataRecord
	for i := range records {
		if strings.EqualFold(records[i].Name, candidate.Name) {
			record = &records[i]
			break
		}
	}
	if record == nil && len(records) > 0 {
		record = &records[0]
	}

	artist := &models.UnifiedArtist{
		MBID:           candidate.MBID,
		Name:           candidate.Name,
		SortName:       candidate.SortName,
		Aliases:        candidate.Aliases,
		Type:           candidate.Type,
		Country:        candidate.Country,
		Disambiguation: candidate.Disambiguation,
		Confidence:     candidate.Score,
		Sources: models.Sources{
			MusicBrainz: true,
			Spotify:     record != nil,
		},
		ResolvedAt: r.now(),
	}

	if record != nil {
		artist.SpotifyID = record.SpotifyID
		artist.Genres = record.Genres
		artist.Popularity = intPtr(record.Popularity)
		artist.Followers = intPtr(record.Followers)
		artist.Images = record.Images
		artist.SpotifyURL = record.SpotifyURL
	}

	return artist, nil
}

// resolveMetadataOnly builds a UnifiedArtist from Spotify alone. The
// identity is unverified, so confidence is fixed low.
func (r *Resolver) resolveMetadataOnly(ctx context.Context, name string) (*models.UnifiedArtist, error) {
	records, err := r.metadata.SearchArtists(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrArtistNotFound
	}

	record := records[0]
	return &models.UnifiedArtist{
		SpotifyID:  record.SpotifyID,
		Name:       record.Name,
		Genres:     record.Genres,
		Popularity: intPtr(record.Popularity),
		Followers:  intPtr(record.Followers),
		Images:     record.Images,
		SpotifyURL: record.SpotifyURL,
		Confidence: r.fallbackConfidence,
		Sources: models.Sources{
			MusicBrainz: false,
			Spotify:     true,
		},
		ResolvedAt: r.now(),
	}, nil
}

// ResolveArtists resolves a batch of names sequentially, preserving
// input order. Sequential on purpose: parallel resolution would fight
// the per-upstream rate limiters for no throughput gain. One failed
// name never aborts the rest.
func (r *Resolver) ResolveArtists(ctx context.Context, names []string) []models.ResolveResult {
	results := make([]models.ResolveResult, 0, len(names))
	for _, name := range names {
		artist, err := r.ResolveArtist(ctx, name)
		if err != nil {
			results = append(results, models.ResolveResult{
				Name:     name,
				Resolved: false,
				Error:    err.Error(),
			})
			continue
		}
		results = append(results, models.ResolveResult{
			Name:     name,
			Resolved: true,
			Artist:   artist,
		})
	}
	return results
}

// GetArtistMetadata returns the per-ID metadata view. MBID lookups
// fetch the canonical record and then enrich it with a Spotify search
// by name on a best-effort basis; Spotify lookups fetch the record
// directly.
func (r *Resolver) GetArtistMetadata(ctx context.Context, id string, idType IDType) (*models.ArtistMetadata, error) {
	cacheKey := fmt.Sprintf("metadata:%s:%s", idType, id)
	if cached, ok := r.cache.Get(cacheKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("metadata").Inc()
		return cached.(*models.ArtistMetadata), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("metadata").Inc()

	var meta *models.ArtistMetadata
	switch idType {
	case IDTypeMBID:
		detail, err := r.identity.GetArtistByMBID(ctx, id)
		if err != nil {
			return nil, err
		}
		meta = &models.ArtistMetadata{
			MBID:     detail.MBID,
			Name:     detail.Name,
			SortName: detail.SortName,
			Type:     detail.Type,
			Country:  detail.Country,
			Genres:   detail.Genres,
			Tags:     detail.Tags,
			LifeSpan: detail.LifeSpan,
		}

		// Enrichment is strictly best-effort.
		records, err := r.metadata.SearchArtists(ctx, detail.Name, 1)
		if err != nil {
			logging.Warn().Err(err).Str("artist", detail.Name).Msg("Spotify enrichment failed for canonical record")
		} else if len(records) > 0 && strings.EqualFold(records[0].Name, detail.Name) {
			rec := records[0]
			meta.SpotifyID = rec.SpotifyID
			meta.Images = rec.Images
			meta.Popularity = intPtr(rec.Popularity)
			meta.Followers = intPtr(rec.Followers)
			meta.SpotifyURL = rec.SpotifyURL
			if len(meta.Genres) == 0 {
				meta.Genres = rec.Genres
			}
		}

	case IDTypeSpotify:
		record, err := r.metadata.GetArtist(ctx, id)
		if err != nil {
			return nil, err
		}
		meta = &models.ArtistMetadata{
			SpotifyID:  record.SpotifyID,
			Name:       record.Name,
			Genres:     record.Genres,
			Images:     record.Images,
			Popularity: intPtr(record.Popularity),
			Followers:  intPtr(record.Followers),
			SpotifyURL: record.SpotifyURL,
		}

	default:
		return nil, fmt.Errorf("unknown id type %q", idType)
	}

	r.cache.SetWithTTL(cacheKey, meta, r.cacheTTL)
	return meta, nil
}

func intPtr(v int) *int {
	return &v
}
