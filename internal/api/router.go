// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the HTTP-surface knobs.
type RouterConfig struct {
	// CORSAllowedOrigins lists origins allowed to call the API.
	// Empty means allow all, matching the original deployment where a
	// trusted reverse proxy fronts the service.
	CORSAllowedOrigins []string

	// RateLimitRequests / RateLimitWindow bound per-IP request rates.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// RateLimitDisabled turns rate limiting off, for tests and local use.
	RateLimitDisabled bool

	// RequestTimeout bounds each request's handler execution.
	RequestTimeout time.Duration
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  300,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     10 * time.Second,
	}
}

// NewRouter assembles the HTTP routing tree around the handler.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(Metrics())
	r.Use(AccessLog())
	if !cfg.RateLimitDisabled {
		r.Use(httprate.Limit(
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/", h.GeneralRecommendations)
		r.Get("/trending", h.Trending)
		r.Get("/{userID}", h.Recommendations)
		r.Post("/{userID}", h.Recommendations)
	})

	r.Post("/similar-abbreviations", h.Similar)
	r.Post("/train", h.Train)
	r.Post("/update-training", h.Train)
	r.Post("/track-interaction", h.TrackInteraction)
	r.Get("/user-profile/{userID}", h.UserProfile)
	r.Post("/batch-recommendations", h.BatchRecommendations)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
