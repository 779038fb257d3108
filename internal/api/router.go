// Soundcheck - Music Discovery and Concert Alerts
// Copyright 2026 Soundcheck contributors
// SPDX-License-Identifier: MIT
// https://github.com/soundcheckhq/soundcheck

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the HTTP routes from handlers and middleware.
type Router struct {
	handler    *Handlers
	middleware *Middleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handlers, middleware *Middleware) *Router {
	if middleware == nil {
		middleware = NewMiddleware(nil)
	}
	return &Router{
		handler:    handler,
		middleware: middleware,
	}
}

// Setup configures all HTTP routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(RequestLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS()) // global so OPTIONS preflight is handled

	// Health endpoints with permissive rate limiting for monitors.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Use(SecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Resolution endpoints fan out to MusicBrainz and Spotify, so they
	// get the tight rate budget.
	r.Route("/api/v1/artists", func(r chi.Router) {
		r.Use(SecurityHeaders())

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimitResolve())
			r.Post("/resolve", router.handler.ResolveArtist)
			r.Post("/resolve/batch", router.handler.ResolveArtistsBatch)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit())
			r.Get("/{idType}/{id}", router.handler.ArtistMetadata)
			r.Get("/spotify/{id}/albums", router.handler.ArtistAlbums)
		})
	})

	// Cached read endpoints under the default rate limit.
	r.Route("/api/v1/concerts", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Get("/", router.handler.ArtistConcerts)
		r.Get("/location", router.handler.ConcertsByLocation)
	})

	r.Route("/api/v1/albums", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Get("/search", router.handler.SearchAlbums)
		r.Get("/new-releases", router.handler.NewReleases)
		r.Get("/{id}", router.handler.Album)
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Get("/{id}/notifications", router.handler.UserNotifications)
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}
