// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package main is the entry point for the Abbrank server.
//
// Abbrank scores and ranks entries of an abbreviation catalog: it serves
// personalized recommendations, trending rankings and text-similarity
// search over a catalog owned by a separate backend service.
//
// # Application Architecture
//
// Startup order:
//
//  1. Configuration: Koanf v2 layering defaults, an optional YAML file
//     and ABBRANK_* environment variables
//  2. Logging: zerolog, JSON by default
//  3. Backend client: HTTP client wrapped in a circuit breaker
//  4. Catalog cache: TTL snapshot cache with stale fallback
//  5. Recommendation engine: TF-IDF vectorizer plus the scorers
//  6. Supervision tree: catalog refresher (data layer) and HTTP server
//     (api layer) under suture
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context; the supervision tree
// drains the HTTP server and stops the refresher before exit.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/abbrank/abbrank/internal/api"
	"github.com/abbrank/abbrank/internal/catalog"
	"github.com/abbrank/abbrank/internal/config"
	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/recommend"
	"github.com/abbrank/abbrank/internal/supervisor"
	"github.com/abbrank/abbrank/internal/supervisor/services"
	"github.com/abbrank/abbrank/internal/textrank"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log := logging.WithComponent("main")
	log.Info().
		Str("listen", cfg.ListenAddr()).
		Str("backend", cfg.Backend.URL).
		Msg("Starting Abbrank")

	// Backend access: HTTP client behind a circuit breaker, snapshot
	// cache in front.
	client := catalog.NewClient(catalog.ClientConfig{
		BaseURL:         cfg.Backend.URL,
		FetchTimeout:    cfg.Backend.FetchTimeout,
		UserDataTimeout: cfg.Backend.UserDataTimeout,
		RatePerSecond:   cfg.Backend.RatePerSecond,
	})
	breaker := catalog.NewBreakerClient(client)
	cache := catalog.NewCache(breaker, cfg.Cache.TTL)

	// Scoring engine.
	vectorizer := textrank.New(textrank.Config{})
	hybrid := recommend.NewHybridScorer(vectorizer, logging.Logger())
	similarity := recommend.NewSimilaritySearch(vectorizer, logging.Logger())
	engine := recommend.NewEngine(cache, breaker, hybrid, similarity, nil, recommend.Config{
		DefaultLimit:           cfg.Scoring.DefaultLimit,
		MaxLimit:               cfg.Scoring.MaxLimit,
		HighActivityCategories: cfg.Trending.HighActivityCategories,
	}, logging.Logger())

	// HTTP surface.
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitReqs <= 0,
		RequestTimeout:     cfg.Scoring.RequestTimeout,
	})
	server := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: router,
	}

	// Supervision tree: refresher in the data layer, HTTP server in the
	// api layer.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if cfg.Cache.RefreshInterval > 0 {
		tree.AddDataService(services.NewRefresherService(cache, cfg.Cache.RefreshInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Shutdown complete")
	return nil
}
