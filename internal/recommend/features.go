// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"strings"

	"github.com/abbrank/abbrank/internal/models"
)

// ExtractFeatures derives a user profile from the raw interaction
// payload. It is a pure function: absent fields get defaults (empty
// sets, zero activity, morning period) and nothing is cached across
// requests. A nil payload yields the all-defaults profile.
func ExtractFeatures(data *models.UserData) UserFeatures {
	features := UserFeatures{
		Excluded:        make(map[int64]struct{}),
		PreferredPeriod: PeriodMorning,
	}
	if data == nil {
		return features
	}

	features.Department = data.Department
	features.SearchHistory = data.SearchHistory
	features.CommonCategories = data.CommonCategories
	features.ActivityLevel = len(data.Interactions)
	features.PreferredPeriod = preferredPeriod(data.Interactions)

	for _, id := range data.ViewedEntries {
		features.Excluded[id] = struct{}{}
	}
	for _, id := range data.VotedEntries {
		features.Excluded[id] = struct{}{}
	}

	return features
}

// preferredPeriod buckets each interaction's hour into morning [6,12),
// afternoon [12,18), or evening, and returns the fullest bucket. Ties
// resolve in declaration order (morning > afternoon > evening).
// Interactions with unparsable timestamps are skipped; when none parse,
// the default is morning.
func preferredPeriod(interactions []models.Interaction) Period {
	var counts [3]int
	for _, interaction := range interactions {
		ts, ok := models.ParseTimestamp(interaction.CreatedAt)
		if !ok {
			continue
		}
		switch hour := ts.Hour(); {
		case hour >= 6 && hour < 12:
			counts[PeriodMorning]++
		case hour >= 12 && hour < 18:
			counts[PeriodAfternoon]++
		default:
			counts[PeriodEvening]++
		}
	}

	best := PeriodMorning
	for p := PeriodAfternoon; p <= PeriodEvening; p++ {
		if counts[p] > counts[best] {
			best = p
		}
	}
	return best
}

// ProfileText synthesizes the textual user profile for TF-IDF
// similarity: search history first (the strongest signal), then
// department, then preferred categories, lowercased and joined.
// Returns "" for a profile with no text, which scores zero similarity.
func (f *UserFeatures) ProfileText() string {
	parts := make([]string, 0, len(f.SearchHistory)+len(f.CommonCategories)+1)
	parts = append(parts, f.SearchHistory...)
	if f.Department != "" {
		parts = append(parts, f.Department)
	}
	parts = append(parts, f.CommonCategories...)
	return strings.TrimSpace(strings.ToLower(strings.Join(parts, " ")))
}
