// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package textrank

import (
	"errors"
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "API: Application-Programming Interface!",
			want: []string{"api", "application", "programming", "interface"},
		},
		{
			name: "drops single character tokens",
			text: "a b cd",
			want: []string{"cd"},
		},
		{
			name: "drops english stop words",
			text: "the quick brown fox and the lazy dog",
			want: []string{"quick", "brown", "fox", "lazy", "dog"},
		},
		{
			name: "keeps digits",
			text: "ipv6 802 11",
			want: []string{"ipv6", "802", "11"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"service", "level", "agreement"})
	want := []string{"service", "level", "agreement", "service level", "level agreement"}
	if len(got) != len(want) {
		t.Fatalf("ngrams = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("gram %d = %q, want %q", i, got[i], want[i])
		}
	}

	if got := ngrams(nil); got != nil {
		t.Errorf("ngrams(nil) = %v, want nil", got)
	}
}

func TestFitTransformIdenticalDocuments(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{
		"service level agreement",
		"service level agreement",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if sim := m.Similarity(0, 1); math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("similarity of identical documents = %v, want 1.0", sim)
	}
}

func TestFitTransformDisjointDocuments(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{
		"database index",
		"network protocol",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if sim := m.Similarity(0, 1); sim != 0 {
		t.Errorf("similarity of disjoint documents = %v, want 0", sim)
	}
}

func TestFitTransformPartialOverlap(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{
		"http protocol specification",
		"http server",
		"garden watering schedule",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	overlap := m.Similarity(0, 1)
	unrelated := m.Similarity(0, 2)
	if overlap <= 0 || overlap >= 1 {
		t.Errorf("overlapping similarity = %v, want in (0, 1)", overlap)
	}
	if unrelated != 0 {
		t.Errorf("unrelated similarity = %v, want 0", unrelated)
	}
	if overlap <= unrelated {
		t.Errorf("overlap %v not greater than unrelated %v", overlap, unrelated)
	}
}

func TestFitTransformSymmetry(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{
		"virtual private network tunnel",
		"private network access",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if a, b := m.Similarity(0, 1), m.Similarity(1, 0); math.Abs(a-b) > 1e-12 {
		t.Errorf("similarity not symmetric: %v vs %v", a, b)
	}
}

func TestFitTransformEmptyVocabulary(t *testing.T) {
	v := New(Config{})

	_, err := v.FitTransform([]string{"", "   "})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("empty corpus error = %v, want ErrEmptyVocabulary", err)
	}

	// All stop-words tokenize to nothing.
	_, err = v.FitTransform([]string{"the and of", "it is was"})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("stop-word corpus error = %v, want ErrEmptyVocabulary", err)
	}
}

func TestFitTransformInvalidUTF8(t *testing.T) {
	v := New(Config{})
	_, err := v.FitTransform([]string{"ok", string([]byte{0xff, 0xfe})})
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("invalid input error = %v, want ErrInvalidText", err)
	}
}

func TestFitTransformMaxFeatures(t *testing.T) {
	// "shared" appears in both documents, so it has the highest
	// collection frequency and must survive a vocabulary cap of 1.
	v := New(Config{MaxFeatures: 1})
	m, err := v.FitTransform([]string{
		"shared database",
		"shared network",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if m.VocabularySize() != 1 {
		t.Fatalf("vocabulary size = %d, want 1", m.VocabularySize())
	}
	// Both documents reduced to the shared term: fully similar.
	if sim := m.Similarity(0, 1); math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("similarity under cap = %v, want 1.0", sim)
	}
}

func TestMatrixSimilarityOutOfRange(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{"alpha beta"})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {0, 5}, {5, 0}} {
		if sim := m.Similarity(pair[0], pair[1]); sim != 0 {
			t.Errorf("Similarity(%d, %d) = %v, want 0", pair[0], pair[1], sim)
		}
	}
}

func TestPairSimilarity(t *testing.T) {
	v := New(Config{})

	sim, err := v.PairSimilarity("continuous integration pipeline", "continuous integration")
	if err != nil {
		t.Fatalf("PairSimilarity: %v", err)
	}
	if sim <= 0 || sim > 1 {
		t.Errorf("similarity = %v, want in (0, 1]", sim)
	}

	if _, err := v.PairSimilarity("", ""); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("empty pair error = %v, want ErrEmptyVocabulary", err)
	}
}

func TestRowVectorsAreNormalized(t *testing.T) {
	v := New(Config{})
	m, err := v.FitTransform([]string{
		"distributed consensus algorithm",
		"consensus protocol raft",
		"typography kerning",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for i, row := range m.rows {
		var sum float64
		for _, w := range row {
			sum += w * w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("row %d squared norm = %v, want 1.0", i, sum)
		}
	}
}
