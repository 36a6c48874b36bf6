// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/models"
	"github.com/abbrank/abbrank/internal/textrank"
)

// ErrEmptyQuery is returned when a similarity query is empty or
// whitespace-only.
var ErrEmptyQuery = errors.New("recommend: empty similarity query")

// similarityThreshold filters out entries whose cosine similarity with
// the query is too low to be meaningful matches.
const similarityThreshold = 0.1

// SimilaritySearch finds catalog entries textually similar to a free-form
// query using TF-IDF cosine similarity over abbreviation, meaning and
// description text.
type SimilaritySearch struct {
	vectorizer *textrank.Vectorizer
	log        zerolog.Logger
}

// NewSimilaritySearch creates a similarity search backed by the given
// vectorizer.
func NewSimilaritySearch(vectorizer *textrank.Vectorizer, log zerolog.Logger) *SimilaritySearch {
	return &SimilaritySearch{
		vectorizer: vectorizer,
		log:        log.With().Str("component", "similarity").Logger(),
	}
}

// Search returns entries similar to query, similarity-descending, at
// most limit results. The query is vectorized together with the catalog
// so its terms share the corpus vocabulary. An empty query returns
// ErrEmptyQuery; an empty catalog or a vocabulary failure returns an
// empty result, not an error.
func (s *SimilaritySearch) Search(query string, entries []models.Entry, limit int) ([]models.SimilarEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(entries) == 0 {
		return []models.SimilarEntry{}, nil
	}

	// Row 0 is the query; rows 1..N are the catalog entries.
	docs := make([]string, 0, len(entries)+1)
	docs = append(docs, strings.ToLower(query))
	for i := range entries {
		docs = append(docs, entries[i].CombinedText())
	}

	matrix, err := s.vectorizer.FitTransform(docs)
	if err != nil {
		// Degraded corpus (all stopwords, invalid text) means no
		// meaningful matches rather than a request failure.
		s.log.Debug().Err(err).Str("query", query).Msg("Similarity vectorization failed")
		return []models.SimilarEntry{}, nil
	}

	results := make([]models.SimilarEntry, 0, limit)
	for i := range entries {
		sim := matrix.Similarity(0, i+1)
		if sim <= similarityThreshold {
			continue
		}
		entry := &entries[i]
		results = append(results, models.SimilarEntry{
			ID:           entry.ID,
			Abbreviation: entry.Abbreviation,
			Meaning:      entry.Meaning,
			Description:  entry.Description,
			Category:     entry.Category,
			Similarity:   roundScore(sim),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
