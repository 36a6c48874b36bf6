// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/models"
	"github.com/abbrank/abbrank/internal/textrank"
)

// Hybrid scoring weights. The raw total is normalized by MaxHybridScore.
const (
	departmentWeight  = 2.5
	categoryWeight    = 1.5
	searchTermWeight  = 1.0
	similarityWeight  = 3.0
	popularityPerVote = 0.1
	popularityCap     = 2.0
	recencyWindowDays = 30
)

// HybridScorer ranks entries for a user profile by combining rule-based
// signals, TF-IDF profile similarity, popularity, and recency.
type HybridScorer struct {
	vectorizer *textrank.Vectorizer
	log        zerolog.Logger
}

// NewHybridScorer creates a hybrid scorer sharing the given vectorizer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHybridScorer(vectorizer *textrank.Vectorizer, log zerolog.Logger) *HybridScorer {
	return &HybridScorer{
		vectorizer: vectorizer,
		log:        log.With().Str("scorer", "hybrid").Logger(),
	}
}

// RankForUser scores every non-excluded catalog entry against the user
// profile and returns the top entries, score-descending, ties in
// catalog order. limit <= 0 means no truncation. An empty or fully
// excluded catalog yields an empty slice.
func (h *HybridScorer) RankForUser(entries []models.Entry, features *UserFeatures, limit int, now time.Time) []models.ScoredEntry {
	profileText := features.ProfileText()
	categorySet := make(map[string]struct{}, len(features.CommonCategories))
	for _, cat := range features.CommonCategories {
		categorySet[cat] = struct{}{}
	}

	scored := make([]models.ScoredEntry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if _, seen := features.Excluded[entry.ID]; seen {
			continue
		}
		scored = append(scored, models.ScoredEntry{
			ID:           entry.ID,
			Score:        h.score(entry, features, categorySet, profileText, now),
			Abbreviation: entry.Abbreviation,
			Meaning:      entry.Meaning,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// score computes the normalized hybrid score for one entry.
func (h *HybridScorer) score(entry *models.Entry, features *UserFeatures, categorySet map[string]struct{}, profileText string, now time.Time) float64 {
	var raw float64

	// Rule-based signals.
	if entry.Department != "" && entry.Department == features.Department {
		raw += departmentWeight
	}
	if _, ok := categorySet[entry.Category]; ok && entry.Category != "" {
		raw += categoryWeight
	}

	searchText := entry.SearchText()
	for _, term := range features.SearchHistory {
		if term == "" {
			continue
		}
		if strings.Contains(searchText, strings.ToLower(term)) {
			raw += searchTermWeight
		}
	}

	// Profile text similarity. Vectorization errors contribute zero;
	// one bad entry must never abort ranking of the rest.
	raw += similarityWeight * h.similarity(profileText, entry)

	// Popularity, capped.
	popularity := float64(entry.VotesCount) * popularityPerVote
	if popularity > popularityCap {
		popularity = popularityCap
	}
	raw += popularity

	// Recency bonus within the window. Unparsable dates contribute
	// nothing, silently.
	if created, ok := models.ParseTimestamp(entry.CreatedAt); ok {
		daysOld := int(now.Sub(created).Hours() / 24)
		if daysOld < 0 {
			daysOld = 0
		}
		if daysOld < recencyWindowDays {
			raw += 1.0 - float64(daysOld)/recencyWindowDays
		}
	}

	return clampScore(raw, MaxHybridScore)
}

// similarity returns the TF-IDF cosine similarity between the user
// profile text and the entry's combined text, degraded to 0 on any
// vectorization error.
func (h *HybridScorer) similarity(profileText string, entry *models.Entry) float64 {
	if profileText == "" {
		return 0
	}
	sim, err := h.vectorizer.PairSimilarity(profileText, strings.ToLower(entry.CombinedText()))
	if err != nil {
		h.log.Debug().Err(err).Int64("entry_id", entry.ID).Msg("similarity degraded to zero")
		return 0
	}
	return sim
}
