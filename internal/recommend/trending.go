// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/abbrank/abbrank/internal/models"
)

// Trending score constants. The raw total is normalized by
// maxTrendingScore.
const (
	votesEngagementWeight   = 2.0
	commentEngagementWeight = 1.0
	wellDocumentedBonus     = 3.0
	basicDocumentedBonus    = 1.0
	highActivityBonus       = 2.0
	departmentPresenceBonus = 1.0
	maxTrendingScore        = 10.0
)

// TrendingScorer computes popularity/recency/quality scores independent
// of any user profile. The same entry and the same clock always produce
// the same score.
type TrendingScorer struct {
	highActivity map[string]struct{}
}

// NewTrendingScorer creates a trending scorer. categories is the
// high-activity category set earning the category bonus; it comes from
// configuration because its membership is locale-specific, not logic.
func NewTrendingScorer(categories []string) *TrendingScorer {
	set := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		set[strings.ToLower(cat)] = struct{}{}
	}
	return &TrendingScorer{highActivity: set}
}

// Score computes the trending score for one entry at the given time,
// in [0.01, 1.0], rounded to three decimals.
func (t *TrendingScorer) Score(entry *models.Entry, now time.Time) float64 {
	// Engagement with time decay. Recent content gets a boost, old
	// content decays gently rather than disappearing.
	engagement := float64(entry.VotesCount)*votesEngagementWeight +
		float64(entry.CommentCount())*commentEngagementWeight
	raw := engagement * t.decayFactor(entry.CreatedAt, now)

	// Documentation quality.
	meaningLen := len(entry.Meaning)
	descriptionLen := len(entry.Description)
	switch {
	case meaningLen > 10 && descriptionLen > 20:
		raw += wellDocumentedBonus
	case meaningLen > 5:
		raw += basicDocumentedBonus
	}

	// Category relevance.
	if _, ok := t.highActivity[strings.ToLower(entry.Category)]; ok && entry.Category != "" {
		raw += highActivityBonus
	}

	// Department presence signals organizational relevance.
	if entry.Department != "" {
		raw += departmentPresenceBonus
	}

	return clampScore(raw, maxTrendingScore)
}

// Rank scores all entries and returns the top limit, score-descending,
// ties in catalog order. limit <= 0 means no truncation.
func (t *TrendingScorer) Rank(entries []models.Entry, now time.Time, limit int) []models.ScoredEntry {
	scored := make([]models.ScoredEntry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		scored = append(scored, models.ScoredEntry{
			ID:           entry.ID,
			Score:        t.Score(entry, now),
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

// decayFactor maps entry age onto the engagement decay tiers. An
// unparsable creation date is neutral (1.0).
func (t *TrendingScorer) decayFactor(createdAt string, now time.Time) float64 {
	created, ok := models.ParseTimestamp(createdAt)
	if !ok {
		return 1.0
	}
	daysOld := int(now.Sub(created).Hours() / 24)
	switch {
	case daysOld < 1:
		return 1.5
	case daysOld < 7:
		return 1.2
	case daysOld < 30:
		return 1.0
	case daysOld < 90:
		return 0.8
	default:
		return 0.6
	}
}
