// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package recommend is the scoring and ranking engine.
//
// It combines four rankers over the cached entry catalog:
//
//   - Hybrid: rule-based signals plus TF-IDF profile similarity for a
//     user's personalized feed
//   - Trending: popularity, recency decay, and quality, user-independent
//   - Similarity: nearest-neighbor text search for an ad-hoc query
//   - Training features: fixed-length numeric vectors for an external
//     binary classifier
//
// All scores land in [0.01, 1.0], rounded to three decimals; ranking is
// score-descending with ties kept in catalog order. Degraded upstream
// conditions (fetch failures, malformed dates, empty catalogs) produce
// documented fallback values, never request failures; the one caller
// error is ErrEmptyQuery from the similarity search.
package recommend
