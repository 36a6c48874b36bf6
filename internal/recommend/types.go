// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package recommend

import (
	"context"
	"math"
)

// Period buckets the hour of day a user is active in.
type Period int

const (
	// PeriodMorning covers interaction hours [6, 12). It is also the
	// default when no interaction has a usable timestamp.
	PeriodMorning Period = iota
	// PeriodAfternoon covers hours [12, 18).
	PeriodAfternoon
	// PeriodEvening covers all remaining hours.
	PeriodEvening
)

// String returns a human-readable period name.
func (p Period) String() string {
	switch p {
	case PeriodMorning:
		return "morning"
	case PeriodAfternoon:
		return "afternoon"
	case PeriodEvening:
		return "evening"
	default:
		return "unknown"
	}
}

// UserFeatures is a per-request profile derived from the collaborator's
// interaction payload. Built fresh on every request and never cached;
// there is no persistent user-profile store in this service.
type UserFeatures struct {
	// Department is the user's organizational unit, if known.
	Department string

	// SearchHistory is the user's recent search terms, newest last.
	SearchHistory []string

	// Excluded holds entry IDs the user has already viewed or voted
	// on. Those entries never appear in personalized results.
	Excluded map[int64]struct{}

	// CommonCategories lists the user's preferred categories in the
	// order the collaborator reported them.
	CommonCategories []string

	// ActivityLevel is the number of raw interactions in the payload.
	ActivityLevel int

	// PreferredPeriod is the dominant activity bucket.
	PreferredPeriod Period
}

// MaxHybridScore is the fixed maximum possible raw hybrid score:
// 2.5 (department) + 1.5 (category) + 1.0 (search hit) + 3.0 (text
// similarity) + 2.0 (popularity cap) + 1.0 (recency cap).
const MaxHybridScore = 11.0

// MinScore is the floor for every scorer output, so a zero-signal entry
// stays distinguishable from an absent one.
const MinScore = 0.01

// clampScore normalizes a raw score against the given maximum into
// [MinScore, 1.0], rounded to three decimals.
func clampScore(raw, maximum float64) float64 {
	normalized := raw / maximum
	if normalized > 1.0 {
		normalized = 1.0
	}
	if normalized < MinScore {
		normalized = MinScore
	}
	return roundScore(normalized)
}

// roundScore rounds a score to three decimals.
func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

// Classifier is the external binary-classification capability the
// training features feed. The service never depends on any particular
// training algorithm; it only builds the feature matrix and labels.
type Classifier interface {
	// Train fits the model on a feature matrix and parallel labels.
	Train(ctx context.Context, features [][]float64, labels []int) error

	// Predict returns a label per feature row.
	Predict(ctx context.Context, features [][]float64) ([]int, error)

	// IsTrained reports whether a model is available.
	IsTrained() bool
}

// NoopClassifier is the default Classifier: it accepts training data and
// predicts nothing. Deployments plug a real classifier in through the
// engine.
type NoopClassifier struct {
	trained bool
}

// Train records that training data arrived and discards it.
func (n *NoopClassifier) Train(_ context.Context, _ [][]float64, _ []int) error {
	n.trained = true
	return nil
}

// Predict returns a zero label per row.
func (n *NoopClassifier) Predict(_ context.Context, features [][]float64) ([]int, error) {
	return make([]int, len(features)), nil
}

// IsTrained reports whether Train has been called.
func (n *NoopClassifier) IsTrained() bool {
	return n.trained
}

var _ Classifier = (*NoopClassifier)(nil)
