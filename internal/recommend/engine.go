// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/catalog"
	"github.com/abbrank/abbrank/internal/metrics"
	"github.com/abbrank/abbrank/internal/models"
)

const (
	// fallbackFetchLimit is how many catalog entries the anonymous
	// fallback path considers.
	fallbackFetchLimit = 10
	// fallbackResultLimit is how many of those it returns.
	fallbackResultLimit = 5
	// similarityDefaultLimit is the result count for similarity searches
	// that do not ask for one. Smaller than the general default: loose
	// text matches degrade quickly past the top few.
	similarityDefaultLimit = 5
)

// Config carries the engine's scoring knobs.
type Config struct {
	// DefaultLimit is the result count when a request does not specify one.
	DefaultLimit int
	// MaxLimit caps client-requested result counts.
	MaxLimit int
	// HighActivityCategories earn the trending category bonus.
	HighActivityCategories []string
}

// Engine ties the catalog cache, the user-data fetcher and the scorers
// into the operations the API exposes. All methods are safe for
// concurrent use.
type Engine struct {
	cache      *catalog.Cache
	fetcher    catalog.Fetcher
	hybrid     *HybridScorer
	trending   *TrendingScorer
	similarity *SimilaritySearch
	classifier Classifier
	cfg        Config
	log        zerolog.Logger

	now func() time.Time
}

// NewEngine creates a recommendation engine. classifier may be nil, in
// which case a no-op classifier is used.
func NewEngine(cache *catalog.Cache, fetcher catalog.Fetcher, hybrid *HybridScorer, similarity *SimilaritySearch, classifier Classifier, cfg Config, log zerolog.Logger) *Engine {
	if classifier == nil {
		classifier = &NoopClassifier{}
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &Engine{
		cache:      cache,
		fetcher:    fetcher,
		hybrid:     hybrid,
		trending:   NewTrendingScorer(cfg.HighActivityCategories),
		similarity: similarity,
		classifier: classifier,
		cfg:        cfg,
		log:        log.With().Str("component", "engine").Logger(),
		now:        time.Now,
	}
}

// ClampLimit normalizes a client-requested result count into
// [1, MaxLimit], substituting the default for zero or negatives.
func (e *Engine) ClampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// RecommendForUser produces personalized recommendations. When data is
// nil the user's profile is fetched from the backend; a fetch failure
// degrades to an empty profile rather than failing the request.
func (e *Engine) RecommendForUser(ctx context.Context, userID int64, data *models.UserData, limit int) []models.ScoredEntry {
	started := e.now()
	limit = e.ClampLimit(limit)

	if data == nil && userID > 0 {
		fetched, err := e.fetcher.FetchUserData(ctx, userID)
		if err != nil {
			e.log.Warn().Err(err).Int64("user_id", userID).Msg("User data fetch failed, scoring with empty profile")
		} else {
			data = fetched
		}
	}

	entries := e.cache.Get(ctx)
	features := ExtractFeatures(data)
	results := e.hybrid.RankForUser(entries, &features, limit, e.now())

	metrics.ScoringRequestsTotal.WithLabelValues("personalized", "success").Inc()
	metrics.ScoringDuration.WithLabelValues("personalized").Observe(e.now().Sub(started).Seconds())
	return results
}

// FallbackRecommendations serves the anonymous path: a small slice of
// the catalog ranked by trending score.
func (e *Engine) FallbackRecommendations(ctx context.Context) []models.ScoredEntry {
	entries, err := e.fetcher.FetchEntries(ctx, fallbackFetchLimit)
	if err != nil {
		e.log.Warn().Err(err).Msg("Fallback fetch failed, using cached catalog")
		entries = e.cache.Get(ctx)
		if len(entries) > fallbackFetchLimit {
			entries = entries[:fallbackFetchLimit]
		}
	}
	return e.trending.Rank(entries, e.now(), fallbackResultLimit)
}

// Trending ranks the cached catalog by trending score.
func (e *Engine) Trending(ctx context.Context, limit int) []models.ScoredEntry {
	started := e.now()
	limit = e.ClampLimit(limit)

	entries := e.cache.Get(ctx)
	results := e.trending.Rank(entries, e.now(), limit)

	metrics.ScoringRequestsTotal.WithLabelValues("trending", "success").Inc()
	metrics.ScoringDuration.WithLabelValues("trending").Observe(e.now().Sub(started).Seconds())
	return results
}

// Similar finds catalog entries textually similar to query.
func (e *Engine) Similar(ctx context.Context, query string, limit int) ([]models.SimilarEntry, error) {
	started := e.now()
	if limit <= 0 {
		limit = similarityDefaultLimit
	} else {
		limit = e.ClampLimit(limit)
	}

	entries := e.cache.Get(ctx)
	results, err := e.similarity.Search(query, entries, limit)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ScoringRequestsTotal.WithLabelValues("similarity", outcome).Inc()
	metrics.ScoringDuration.WithLabelValues("similarity").Observe(e.now().Sub(started).Seconds())
	return results, err
}

// SimilarForEntry finds entries similar to an existing catalog entry,
// identified by ID. The second return is false when the entry is not in
// the current catalog.
func (e *Engine) SimilarForEntry(ctx context.Context, entryID int64, limit int) ([]models.SimilarEntry, bool) {
	entries := e.cache.Get(ctx)
	for i := range entries {
		if entries[i].ID != entryID {
			continue
		}
		results, err := e.similarity.Search(entries[i].SearchText(), entries, e.ClampLimit(limit))
		if err != nil {
			return []models.SimilarEntry{}, true
		}
		// Drop the entry itself; it always matches its own text.
		filtered := results[:0]
		for _, res := range results {
			if res.ID != entryID {
				filtered = append(filtered, res)
			}
		}
		return filtered, true
	}
	return nil, false
}

// Profile fetches the user's data and returns the derived feature
// profile. A fetch failure yields the default profile.
func (e *Engine) Profile(ctx context.Context, userID int64) UserFeatures {
	data, err := e.fetcher.FetchUserData(ctx, userID)
	if err != nil {
		e.log.Warn().Err(err).Int64("user_id", userID).Msg("User data fetch failed, returning default profile")
		return ExtractFeatures(nil)
	}
	return ExtractFeatures(data)
}

// Catalog returns the current cached catalog snapshot.
func (e *Engine) Catalog(ctx context.Context) []models.Entry {
	return e.cache.Get(ctx)
}

// TrainModel builds training features and fits the classifier. entries
// may carry caller-supplied training data; when empty the current
// catalog is used. It reports the number of samples trained on.
func (e *Engine) TrainModel(ctx context.Context, entries []models.Entry) (int, error) {
	if len(entries) == 0 {
		entries = e.cache.Get(ctx)
	}
	features, labels := BuildTrainingFeatures(entries, e.now())
	if err := e.classifier.Train(ctx, features, labels); err != nil {
		metrics.ScoringRequestsTotal.WithLabelValues("train", "error").Inc()
		return 0, err
	}
	metrics.ScoringRequestsTotal.WithLabelValues("train", "success").Inc()
	e.log.Info().Int("samples", len(features)).Msg("Classifier trained")
	return len(features), nil
}

// InvalidateCatalog marks the cached catalog stale so the next read
// refetches. Used after upstream writes such as vote tracking.
func (e *Engine) InvalidateCatalog() {
	e.cache.Invalidate()
}

// CatalogStats exposes cache hit/miss/stale counters for health output.
func (e *Engine) CatalogStats() catalog.CacheStats {
	return e.cache.Stats()
}

// ModelTrained reports whether the classifier has been fitted.
func (e *Engine) ModelTrained() bool {
	return e.classifier.IsTrained()
}
