// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/models"
	"github.com/abbrank/abbrank/internal/textrank"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newHybrid() *HybridScorer {
	return NewHybridScorer(textrank.New(textrank.Config{}), zerolog.Nop())
}

func TestHybridScoreRange(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(&models.UserData{
		Department:       "IT",
		SearchHistory:    []string{"api"},
		CommonCategories: []string{"Technology"},
	})

	entries := []models.Entry{
		{
			// Every signal fires.
			ID: 1, Abbreviation: "API", Meaning: "Application Programming Interface",
			Category: "Technology", Department: "IT", VotesCount: 50,
			CreatedAt: testNow.Add(-24 * time.Hour).Format(time.RFC3339),
		},
		{
			// No signal fires.
			ID: 2, Abbreviation: "ZZZ", Meaning: "Sleepy placeholder",
			CreatedAt: testNow.Add(-365 * 24 * time.Hour).Format(time.RFC3339),
		},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.Score < MinScore || res.Score > 1.0 {
			t.Errorf("entry %d score %v outside [%v, 1.0]", res.ID, res.Score, MinScore)
		}
	}
	if results[0].ID != 1 {
		t.Errorf("top entry = %d, want 1 (all signals firing)", results[0].ID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
}

func TestHybridExcludesSeenEntries(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(&models.UserData{
		ViewedEntries: []int64{1},
		VotedEntries:  []int64{3},
	})

	entries := []models.Entry{
		{ID: 1, Abbreviation: "A", Meaning: "alpha"},
		{ID: 2, Abbreviation: "B", Meaning: "beta"},
		{ID: 3, Abbreviation: "C", Meaning: "gamma"},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].ID != 2 {
		t.Errorf("surviving entry = %d, want 2", results[0].ID)
	}
}

func TestHybridDepartmentBoost(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(&models.UserData{Department: "Finance"})

	entries := []models.Entry{
		{ID: 1, Abbreviation: "ROI", Meaning: "Return on Investment", Department: "Finance"},
		{ID: 2, Abbreviation: "DNS", Meaning: "Domain Name System", Department: "IT"},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	if results[0].ID != 1 {
		t.Errorf("top entry = %d, want 1 (department match)", results[0].ID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("department match did not outscore: %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestHybridSearchTermMatching(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(&models.UserData{
		SearchHistory: []string{"Kubernetes", "orchestration"},
	})

	entries := []models.Entry{
		{ID: 1, Abbreviation: "K8S", Meaning: "Kubernetes container orchestration"},
		{ID: 2, Abbreviation: "SMTP", Meaning: "Simple Mail Transfer Protocol"},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	if results[0].ID != 1 {
		t.Errorf("top entry = %d, want 1 (two search-term hits)", results[0].ID)
	}
}

func TestHybridLimitTruncation(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(nil)

	entries := make([]models.Entry, 20)
	for i := range entries {
		entries[i] = models.Entry{ID: int64(i + 1), Abbreviation: "X", Meaning: "entry"}
	}

	results := scorer.RankForUser(entries, &features, 5, testNow)
	if len(results) != 5 {
		t.Errorf("results = %d, want 5", len(results))
	}
}

func TestHybridZeroSignalFloor(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(nil)

	entries := []models.Entry{
		{ID: 1, Abbreviation: "ABC", Meaning: "plain entry"},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	if results[0].Score != MinScore {
		t.Errorf("zero-signal score = %v, want floor %v", results[0].Score, MinScore)
	}
}

func TestHybridTiesKeepCatalogOrder(t *testing.T) {
	scorer := newHybrid()
	features := ExtractFeatures(nil)

	entries := []models.Entry{
		{ID: 10, Abbreviation: "AA", Meaning: "first"},
		{ID: 20, Abbreviation: "BB", Meaning: "second"},
		{ID: 30, Abbreviation: "CC", Meaning: "third"},
	}

	results := scorer.RankForUser(entries, &features, 0, testNow)
	for i, wantID := range []int64{10, 20, 30} {
		if results[i].ID != wantID {
			t.Errorf("position %d = entry %d, want %d", i, results[i].ID, wantID)
		}
	}
}
