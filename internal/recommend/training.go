// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/abbrank/abbrank/internal/models"
)

// FeatureCount is the width of every training feature vector.
const FeatureCount = 10

const (
	// defaultEntryAgeDays stands in when an entry has no parsable
	// creation date.
	defaultEntryAgeDays = 30
	// maxEntryAgeDays caps the age feature so ancient entries do not
	// dominate the scale.
	maxEntryAgeDays = 365
	// qualityScoreCap bounds the composite quality feature.
	qualityScoreCap = 10.0
	// placeholderRows is the size of the synthetic training set used
	// when the catalog is too small to train on.
	placeholderRows = 10
	// categoryHashBuckets is the modulus for categorical hash features.
	categoryHashBuckets = 100
)

// BuildTrainingFeatures converts catalog entries into fixed-width
// numeric feature vectors plus engagement labels (1 when an entry has
// any votes or comments). With fewer than two entries it returns a
// deterministic synthetic set so a classifier can still be fitted.
//
// Feature order: abbreviation length, meaning length, description
// length, votes, comments, category hash, department hash, age in days,
// combined word count of meaning and description, quality score.
func BuildTrainingFeatures(entries []models.Entry, now time.Time) ([][]float64, []int) {
	if len(entries) < 2 {
		return placeholderTrainingSet()
	}

	features := make([][]float64, 0, len(entries))
	labels := make([]int, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		features = append(features, entryFeatures(entry, now))
		if entry.VotesCount > 0 || entry.CommentCount() > 0 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}
	return features, labels
}

func entryFeatures(entry *models.Entry, now time.Time) []float64 {
	votes := float64(entry.VotesCount)
	comments := float64(entry.CommentCount())
	quality := votes + 0.5*comments
	if quality > qualityScoreCap {
		quality = qualityScoreCap
	}

	return []float64{
		float64(len(entry.Abbreviation)),
		float64(len(entry.Meaning)),
		float64(len(entry.Description)),
		votes,
		comments,
		float64(hashBucket(entry.Category)),
		float64(hashBucket(entry.Department)),
		float64(entryAgeDays(entry.CreatedAt, now)),
		float64(len(strings.Fields(entry.Meaning)) + len(strings.Fields(entry.Description))),
		quality,
	}
}

// hashBucket maps a categorical string onto a stable small bucket.
// FNV-1a keeps the mapping deterministic across processes. The empty
// string is bucket 0, so uncategorized entries share a feature value
// instead of inheriting the hash's offset basis.
func hashBucket(s string) uint32 {
	if s == "" {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(s)))
	return h.Sum32() % categoryHashBuckets
}

func entryAgeDays(createdAt string, now time.Time) int {
	created, ok := models.ParseTimestamp(createdAt)
	if !ok {
		return defaultEntryAgeDays
	}
	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > maxEntryAgeDays {
		days = maxEntryAgeDays
	}
	return days
}

// placeholderTrainingSet produces a fixed pseudo-random feature matrix
// with alternating labels. Seeded so repeated training runs on an empty
// catalog behave identically.
func placeholderTrainingSet() ([][]float64, []int) {
	rng := rand.New(rand.NewSource(42))
	features := make([][]float64, placeholderRows)
	labels := make([]int, placeholderRows)
	for i := range features {
		row := make([]float64, FeatureCount)
		for j := range row {
			row[j] = rng.Float64() * 10
		}
		features[i] = row
		labels[i] = i % 2
	}
	return features, labels
}
