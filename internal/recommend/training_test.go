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

func TestTrainingFeatureVector(t *testing.T) {
	entries := []models.Entry{
		{
			ID:           1,
			Abbreviation: "API",
			Meaning:      "Application Programming Interface",
			Description:  "Integration contract",
			Category:     "Technology",
			Department:   "IT",
			VotesCount:   4,
			Comments:     []models.Comment{{ID: 1}, {ID: 2}},
			CreatedAt:    testNow.Add(-10 * 24 * time.Hour).Format(time.RFC3339),
		},
		{ID: 2, Abbreviation: "HR", Meaning: "Human Resources"},
	}

	features, labels := BuildTrainingFeatures(entries, testNow)
	if len(features) != 2 || len(labels) != 2 {
		t.Fatalf("got %d feature rows, %d labels, want 2 each", len(features), len(labels))
	}

	row := features[0]
	if len(row) != FeatureCount {
		t.Fatalf("feature width = %d, want %d", len(row), FeatureCount)
	}
	if row[0] != 3 {
		t.Errorf("abbreviation length = %v, want 3", row[0])
	}
	if row[1] != float64(len("Application Programming Interface")) {
		t.Errorf("meaning length = %v", row[1])
	}
	if row[2] != float64(len("Integration contract")) {
		t.Errorf("description length = %v", row[2])
	}
	if row[3] != 4 || row[4] != 2 {
		t.Errorf("votes/comments = %v/%v, want 4/2", row[3], row[4])
	}
	if row[5] != float64(hashBucket("Technology")) || row[6] != float64(hashBucket("IT")) {
		t.Errorf("hash features = %v/%v", row[5], row[6])
	}
	if row[7] != 10 {
		t.Errorf("age days = %v, want 10", row[7])
	}
	if row[8] != 5 {
		t.Errorf("word count = %v, want 3 meaning + 2 description words", row[8])
	}
	if row[9] != 5 {
		t.Errorf("quality = %v, want votes + comments/2 = 5", row[9])
	}

	if cold := features[1]; cold[5] != 0 || cold[6] != 0 {
		t.Errorf("uncategorized entry hash features = %v/%v, want 0/0", cold[5], cold[6])
	}

	if labels[0] != 1 {
		t.Errorf("engaged entry labeled %d, want 1", labels[0])
	}
	if labels[1] != 0 {
		t.Errorf("cold entry labeled %d, want 0", labels[1])
	}
}

func TestTrainingQualityCapped(t *testing.T) {
	entries := []models.Entry{
		{ID: 1, Abbreviation: "A", Meaning: "x", VotesCount: 50},
		{ID: 2, Abbreviation: "B", Meaning: "y"},
	}

	features, _ := BuildTrainingFeatures(entries, testNow)
	if quality := features[0][FeatureCount-1]; quality != qualityScoreCap {
		t.Errorf("quality = %v, want capped at %v", quality, qualityScoreCap)
	}
}

func TestTrainingAgeBounds(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		want      int
	}{
		{"missing date uses default", "", defaultEntryAgeDays},
		{"unparsable date uses default", "not a date", defaultEntryAgeDays},
		{"ancient entry capped", testNow.Add(-1000 * 24 * time.Hour).Format(time.RFC3339), maxEntryAgeDays},
		{"future date clamps to zero", testNow.Add(24 * time.Hour).Format(time.RFC3339), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryAgeDays(tt.createdAt, testNow); got != tt.want {
				t.Errorf("entryAgeDays(%q) = %d, want %d", tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestTrainingHashBucketStable(t *testing.T) {
	if hashBucket("Technology") != hashBucket("technology") {
		t.Error("hash bucket is case-sensitive")
	}
	if got := hashBucket(""); got != 0 {
		t.Errorf("hashBucket(\"\") = %d, want 0 for uncategorized entries", got)
	}
	if hashBucket("Technology") >= categoryHashBuckets {
		t.Errorf("bucket %d out of range", hashBucket("Technology"))
	}
	first := hashBucket("Finance")
	for i := 0; i < 3; i++ {
		if hashBucket("Finance") != first {
			t.Fatal("hash bucket not stable across calls")
		}
	}
}

func TestTrainingPlaceholderSet(t *testing.T) {
	for _, entries := range [][]models.Entry{nil, {{ID: 1, Abbreviation: "A", Meaning: "x"}}} {
		features, labels := BuildTrainingFeatures(entries, testNow)
		if len(features) != placeholderRows || len(labels) != placeholderRows {
			t.Fatalf("placeholder set = %d rows, %d labels, want %d each",
				len(features), len(labels), placeholderRows)
		}
		for i, row := range features {
			if len(row) != FeatureCount {
				t.Fatalf("row %d width = %d, want %d", i, len(row), FeatureCount)
			}
			if labels[i] != i%2 {
				t.Errorf("label %d = %d, want alternating", i, labels[i])
			}
		}
	}

	// Seeded generator: repeated builds on an empty catalog are identical.
	first, _ := BuildTrainingFeatures(nil, testNow)
	second, _ := BuildTrainingFeatures(nil, testNow)
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("placeholder row %d differs between builds", i)
			}
		}
	}
}
