// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"testing"
	"time"

	"github.com/abbrank/abbrank/internal/models"
)

func defaultTrending() *TrendingScorer {
	return NewTrendingScorer([]string{"tehnologija", "technology", "it", "poslovanje", "business"})
}

func TestTrendingHighEngagementRecentEntry(t *testing.T) {
	scorer := defaultTrending()
	entry := models.Entry{
		ID:           1,
		Abbreviation: "API",
		Meaning:      "Application Programming Interface",
		Description:  "The contract between software components",
		Category:     "Technology",
		Department:   "IT",
		VotesCount:   10,
		Comments:     []models.Comment{{ID: 1}, {ID: 2}},
		CreatedAt:    testNow.Add(-12 * time.Hour).Format(time.RFC3339),
	}

	// Engagement (10*2 + 2) * 1.5 decay = 33, plus 3 + 2 + 1 bonuses:
	// raw 39 normalizes over 10 and caps at 1.0.
	if score := scorer.Score(&entry, testNow); score != 1.0 {
		t.Errorf("score = %v, want capped 1.0", score)
	}
}

func TestTrendingColdEntryFloors(t *testing.T) {
	scorer := defaultTrending()
	entry := models.Entry{
		ID:           2,
		Abbreviation: "X",
		Meaning:      "y",
		CreatedAt:    testNow.Add(-200 * 24 * time.Hour).Format(time.RFC3339),
	}

	if score := scorer.Score(&entry, testNow); score != MinScore {
		t.Errorf("score = %v, want floor %v", score, MinScore)
	}
}

func TestTrendingDecayTiers(t *testing.T) {
	scorer := defaultTrending()

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"under a day", 12 * time.Hour, 1.5},
		{"under a week", 3 * 24 * time.Hour, 1.2},
		{"under a month", 20 * 24 * time.Hour, 1.0},
		{"under ninety days", 60 * 24 * time.Hour, 0.8},
		{"older", 365 * 24 * time.Hour, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createdAt := testNow.Add(-tt.age).Format(time.RFC3339)
			if got := scorer.decayFactor(createdAt, testNow); got != tt.want {
				t.Errorf("decayFactor(age %v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}

	if got := scorer.decayFactor("unparsable", testNow); got != 1.0 {
		t.Errorf("decayFactor(unparsable) = %v, want neutral 1.0", got)
	}
}

func TestTrendingDocumentationBonus(t *testing.T) {
	scorer := defaultTrending()

	// Identical except for documentation quality; no creation date, so
	// engagement decays neutrally.
	well := models.Entry{
		Abbreviation: "SLA", Meaning: "Service Level Agreement",
		Description: "Contractual uptime commitment between parties",
		VotesCount:  1,
	}
	basic := models.Entry{
		Abbreviation: "SLA", Meaning: "Service", VotesCount: 1,
	}
	bare := models.Entry{
		Abbreviation: "SLA", Meaning: "SL", VotesCount: 1,
	}

	wellScore := scorer.Score(&well, testNow)
	basicScore := scorer.Score(&basic, testNow)
	bareScore := scorer.Score(&bare, testNow)

	if wellScore <= basicScore {
		t.Errorf("well documented %v not above basic %v", wellScore, basicScore)
	}
	if basicScore <= bareScore {
		t.Errorf("basic documentation %v not above bare %v", basicScore, bareScore)
	}
}

func TestTrendingCategoryBonusCaseInsensitive(t *testing.T) {
	scorer := defaultTrending()

	tech := models.Entry{Abbreviation: "API", Meaning: "x", Category: "TECHNOLOGY"}
	other := models.Entry{Abbreviation: "API", Meaning: "x", Category: "Gardening"}

	if techScore, otherScore := scorer.Score(&tech, testNow), scorer.Score(&other, testNow); techScore <= otherScore {
		t.Errorf("high-activity category %v not above other %v", techScore, otherScore)
	}
}

func TestTrendingScoreDeterministic(t *testing.T) {
	scorer := defaultTrending()
	entry := models.Entry{
		Abbreviation: "TTL", Meaning: "Time To Live", VotesCount: 4,
		CreatedAt: testNow.Add(-48 * time.Hour).Format(time.RFC3339),
	}

	first := scorer.Score(&entry, testNow)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(&entry, testNow); got != first {
			t.Fatalf("score changed between calls: %v then %v", first, got)
		}
	}
}

func TestTrendingRank(t *testing.T) {
	scorer := defaultTrending()
	entries := []models.Entry{
		{ID: 1, Abbreviation: "A", Meaning: "low signal"},
		{
			ID: 2, Abbreviation: "B", Meaning: "popular entry meaning",
			Description: "a description long enough for the bonus",
			Category:    "Technology", VotesCount: 8,
			CreatedAt: testNow.Add(-2 * 24 * time.Hour).Format(time.RFC3339),
		},
		{ID: 3, Abbreviation: "C", Meaning: "medium entry", VotesCount: 2},
	}

	results := scorer.Rank(entries, testNow, 2)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].ID != 2 {
		t.Errorf("top entry = %d, want 2", results[0].ID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
}
