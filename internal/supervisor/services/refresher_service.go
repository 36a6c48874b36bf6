// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package services

import (
	"context"
	"time"

	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/models"
)

// CatalogReader is the cache capability the refresher drives. Satisfied
// by *catalog.Cache.
type CatalogReader interface {
	Get(ctx context.Context) []models.Entry
}

// RefresherService keeps the catalog snapshot warm by reading through
// the cache on an interval slightly inside the TTL, so interactive
// requests rarely pay the refresh latency. Refresh failures are handled
// inside the cache (stale fallback) and never crash the service.
type RefresherService struct {
	cache    CatalogReader
	interval time.Duration
}

// NewRefresherService creates a catalog refresher.
func NewRefresherService(cache CatalogReader, interval time.Duration) *RefresherService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefresherService{
		cache:    cache,
		interval: interval,
	}
}

// Serve implements suture.Service. It warms the cache immediately, then
// re-reads on every tick until the context is canceled.
func (s *RefresherService) Serve(ctx context.Context) error {
	log := logging.WithComponent("catalog-refresher")

	entries := s.cache.Get(ctx)
	log.Info().Int("entries", len(entries)).Msg("Initial catalog warmup complete")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			entries := s.cache.Get(ctx)
			log.Debug().Int("entries", len(entries)).Msg("Catalog refresh tick")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *RefresherService) String() string {
	return "catalog-refresher"
}
