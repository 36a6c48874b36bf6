// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/metrics"
	"github.com/abbrank/abbrank/internal/models"
)

// DefaultTTL is how long a snapshot stays fresh unless configured.
const DefaultTTL = 5 * time.Minute

// Cache holds the most recent catalog snapshot with a TTL.
//
// Get never returns an error: a refresh failure degrades to the previous
// snapshot if one exists, else to an empty catalog. The snapshot swap is
// atomic under the read-write lock, so readers never observe a partial
// catalog; readers holding a fresh snapshot are not blocked by an
// in-flight refresh, and concurrent refresh triggers collapse into one
// outstanding fetch whose result all waiters share.
//
// The cache is constructor-injected and owned by the process; there is
// no package-level instance.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	log     zerolog.Logger

	// mu guards snapshot.
	mu       sync.RWMutex
	snapshot *models.CatalogSnapshot

	// refreshMu serializes refreshes; waiters re-check freshness after
	// acquiring it so one fetch serves all of them.
	refreshMu sync.Mutex

	hits        atomic.Int64
	misses      atomic.Int64
	staleServes atomic.Int64

	// now is a test seam.
	now func() time.Time
}

// CacheStats is a point-in-time view of cache counters.
type CacheStats struct {
	Hits        int64
	Misses      int64
	StaleServes int64
	SnapshotAge time.Duration
	Entries     int
}

// NewCache creates a catalog cache around the given fetcher.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		log:     logging.With().Str("component", "catalog-cache").Logger(),
		now:     time.Now,
	}
}

// Get returns the current catalog. A fresh snapshot is served without
// I/O; otherwise one refresh runs and failures degrade to stale data or
// an empty slice.
func (c *Cache) Get(ctx context.Context) []models.Entry {
	if snap := c.freshSnapshot(); snap != nil {
		c.hits.Add(1)
		metrics.CatalogCacheHits.Inc()
		return snap.Entries
	}

	c.misses.Add(1)
	metrics.CatalogCacheMisses.Inc()
	return c.refresh(ctx)
}

// Snapshot returns the current snapshot regardless of freshness, or nil
// when nothing has been fetched yet.
func (c *Cache) Snapshot() *models.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Invalidate expires the current snapshot. The entries stay available
// as the stale fallback; the next Get refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		c.snapshot = &models.CatalogSnapshot{Entries: c.snapshot.Entries}
	}
}

// Stats returns current cache counters.
func (c *Cache) Stats() CacheStats {
	stats := CacheStats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		StaleServes: c.staleServes.Load(),
	}
	c.mu.RLock()
	if c.snapshot != nil {
		stats.SnapshotAge = c.snapshot.Age(c.now())
		stats.Entries = len(c.snapshot.Entries)
	}
	c.mu.RUnlock()
	return stats
}

// freshSnapshot returns the snapshot when it is within TTL, else nil.
func (c *Cache) freshSnapshot() *models.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil || c.snapshot.FetchedAt.IsZero() {
		return nil
	}
	if c.snapshot.Age(c.now()) >= c.ttl {
		return nil
	}
	return c.snapshot
}

// refresh fetches the catalog and installs a new snapshot. Exactly one
// refresh is in flight at a time; late arrivals reuse its result.
func (c *Cache) refresh(ctx context.Context) []models.Entry {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited.
	if snap := c.freshSnapshot(); snap != nil {
		return snap.Entries
	}

	entries, err := c.fetcher.FetchEntries(ctx, 0)
	if err != nil {
		c.log.Error().Err(err).Msg("catalog refresh failed")
		return c.staleOrEmpty()
	}

	snap := &models.CatalogSnapshot{Entries: entries, FetchedAt: c.now()}
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	metrics.CatalogSnapshotEntries.Set(float64(len(entries)))
	c.log.Info().Int("entries", len(entries)).Msg("catalog cached")
	return entries
}

// staleOrEmpty returns the previous snapshot's entries when available,
// else an empty slice. Never nil, so callers can range without checks.
func (c *Cache) staleOrEmpty() []models.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot != nil && len(c.snapshot.Entries) > 0 {
		c.staleServes.Add(1)
		metrics.CatalogCacheStaleServes.Inc()
		c.log.Warn().
			Int("entries", len(c.snapshot.Entries)).
			Msg("serving stale catalog snapshot")
		return c.snapshot.Entries
	}
	return []models.Entry{}
}
