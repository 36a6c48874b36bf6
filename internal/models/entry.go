// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package models

import (
	"strings"
	"time"
)

// Entry is one abbreviation catalog item as owned by the upstream catalog
// backend. Entries are read-only snapshots for the duration of a request;
// nothing in this service mutates them.
type Entry struct {
	// ID is the catalog-assigned unique identifier.
	ID int64 `json:"id"`

	// Abbreviation is the short form (e.g. "API").
	Abbreviation string `json:"abbreviation"`

	// Meaning is the expanded form.
	Meaning string `json:"meaning"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Category is an optional classification (e.g. "Technology").
	Category string `json:"category,omitempty"`

	// Department is the owning organizational unit, if any.
	Department string `json:"department,omitempty"`

	// VotesCount is the number of upvotes. Never negative.
	VotesCount int `json:"votes_count"`

	// Comments is the comment list. Only the count is used for scoring.
	Comments []Comment `json:"comments,omitempty"`

	// CreatedAt is the creation timestamp as reported by the backend.
	// Kept as a string because the backend emits both "Z" and offset
	// forms; parse with ParseTimestamp.
	CreatedAt string `json:"created_at,omitempty"`
}

// Comment is a single comment on an entry. Fields beyond the count are
// carried only so payloads round-trip.
type Comment struct {
	ID        int64  `json:"id,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CommentCount returns the number of comments on the entry.
func (e *Entry) CommentCount() int {
	return len(e.Comments)
}

// SearchText returns the text used for exact search-term matching:
// "{abbreviation} {meaning}", lowercased.
func (e *Entry) SearchText() string {
	return strings.ToLower(e.Abbreviation + " " + e.Meaning)
}

// CombinedText returns the document text used for vectorization:
// "{abbreviation} {meaning} {description}".
func (e *Entry) CombinedText() string {
	return e.Abbreviation + " " + e.Meaning + " " + e.Description
}

// CatalogSnapshot is an immutable, timestamped copy of the full catalog.
// A snapshot is created on a successful fetch and replaced wholesale on the
// next one; it is never mutated in place.
type CatalogSnapshot struct {
	// Entries is the catalog in backend order.
	Entries []Entry

	// FetchedAt is when the snapshot was fetched from the backend.
	FetchedAt time.Time
}

// Age returns how long ago the snapshot was fetched.
func (s *CatalogSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// ScoredEntry is a ranked catalog entry returned by the scoring operations.
type ScoredEntry struct {
	// ID is the entry identifier.
	ID int64 `json:"id"`

	// Score is the normalized relevance score in [0.01, 1.0], rounded to
	// three decimals.
	Score float64 `json:"score"`

	// Abbreviation is the short form, copied for display.
	Abbreviation string `json:"abbreviation"`

	// Meaning is the expanded form, copied for display.
	Meaning string `json:"meaning"`
}

// SimilarEntry is a similarity-search result. It carries more display
// fields than ScoredEntry because the original catalog UI renders these
// results inline.
type SimilarEntry struct {
	ID           int64   `json:"id"`
	Abbreviation string  `json:"abbreviation"`
	Meaning      string  `json:"meaning"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Similarity   float64 `json:"similarity_score"`
}

// Interaction is a single user interaction event from the collaborator's
// user-data payload. Only the timestamp is consumed here (for the
// preferred-period bucketing); the type is carried for logging.
type Interaction struct {
	Type      string `json:"interaction_type,omitempty"`
	EntryID   int64  `json:"abbreviation_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UserData is the raw interaction payload supplied by the catalog backend
// (or inline by the caller) for personalization. Absent fields default to
// empty; the feature extractor supplies the fallbacks.
type UserData struct {
	Department       string        `json:"department,omitempty"`
	SearchHistory    []string      `json:"search_history,omitempty"`
	ViewedEntries    []int64       `json:"viewed_abbreviations,omitempty"`
	VotedEntries     []int64       `json:"voted_abbreviations,omitempty"`
	CommonCategories []string      `json:"common_categories,omitempty"`
	Interactions     []Interaction `json:"interactions,omitempty"`
}

// timestampLayouts lists the accepted created_at formats. The backend
// emits RFC3339 with either "Z" or a numeric offset, and occasionally
// without sub-second precision.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend timestamp string. Returns the zero time
// and false when the value is empty or unparsable; callers treat that as
// a documented degraded condition, never an error.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
