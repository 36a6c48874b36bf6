// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package textrank turns small text corpora into TF-IDF weighted vectors
// and computes cosine similarity between them.
//
// The weighting reproduces the defaults of the scoring pipeline this
// service replaced: unigrams and bigrams over lowercased tokens of two or
// more characters, English stop-words removed, vocabulary capped at the
// most frequent terms, smoothed IDF (ln((1+N)/(1+df)) + 1) with raw term
// frequency, and L2-normalized document vectors. Cosine similarity of two
// normalized vectors is their dot product, clamped to [0, 1].
//
// Vectorization never aborts a ranking request: callers catch the two
// sentinel errors and degrade to zero similarity.
package textrank

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrEmptyVocabulary is returned when a corpus yields no terms,
	// for example when every document is empty or all stop-words.
	ErrEmptyVocabulary = errors.New("textrank: empty vocabulary")

	// ErrInvalidText is returned for malformed (non-UTF-8) input.
	ErrInvalidText = errors.New("textrank: invalid text input")
)

// DefaultMaxFeatures bounds the vocabulary size.
const DefaultMaxFeatures = 1000

// Config controls vectorization.
type Config struct {
	// MaxFeatures caps the vocabulary at the terms with the highest
	// collection frequency. Default: DefaultMaxFeatures.
	MaxFeatures int
}

// Vectorizer builds TF-IDF matrices from text corpora. It is stateless
// per call and safe for concurrent use.
type Vectorizer struct {
	maxFeatures int
}

// New creates a Vectorizer.
func New(cfg Config) *Vectorizer {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{maxFeatures: cfg.MaxFeatures}
}

// Matrix holds the TF-IDF vectors of one corpus. Row order matches the
// input document order.
type Matrix struct {
	rows      []map[int]float64
	vocabSize int
}

// Rows returns the number of documents in the matrix.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// VocabularySize returns the number of terms in the fitted vocabulary.
func (m *Matrix) VocabularySize() int {
	return m.vocabSize
}

// Similarity returns the cosine similarity of documents i and j in
// [0.0, 1.0]. Out-of-range indexes score 0.
func (m *Matrix) Similarity(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(m.rows) || j >= len(m.rows) {
		return 0
	}
	return dotSparse(m.rows[i], m.rows[j])
}

// FitTransform tokenizes the corpus, fits the vocabulary, and returns the
// TF-IDF matrix. Returns ErrInvalidText for non-UTF-8 documents and
// ErrEmptyVocabulary when no terms survive tokenization.
func (v *Vectorizer) FitTransform(corpus []string) (*Matrix, error) {
	docs := make([][]string, len(corpus))
	for i, text := range corpus {
		if !utf8.ValidString(text) {
			return nil, ErrInvalidText
		}
		docs[i] = ngrams(tokenize(text))
	}

	vocab := v.fitVocabulary(docs)
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Document frequencies over the capped vocabulary.
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := make(map[int]struct{})
		for _, term := range doc {
			if col, ok := vocab[term]; ok {
				if _, dup := seen[col]; !dup {
					df[col]++
					seen[col] = struct{}{}
				}
			}
		}
	}

	// Smoothed IDF, as if one extra document contained every term.
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for col, d := range df {
		idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}

	rows := make([]map[int]float64, len(docs))
	for i, doc := range docs {
		tf := make(map[int]float64)
		for _, term := range doc {
			if col, ok := vocab[term]; ok {
				tf[col]++
			}
		}
		for col := range tf {
			tf[col] *= idf[col]
		}
		normalizeL2(tf)
		rows[i] = tf
	}

	return &Matrix{rows: rows, vocabSize: len(vocab)}, nil
}

// PairSimilarity vectorizes a two-document corpus and returns the cosine
// similarity between the documents. The errors are the same as
// FitTransform's; callers degrade them to 0.
func (v *Vectorizer) PairSimilarity(a, b string) (float64, error) {
	m, err := v.FitTransform([]string{a, b})
	if err != nil {
		return 0, err
	}
	return m.Similarity(0, 1), nil
}

// fitVocabulary assigns a column to each kept term. When the corpus has
// more distinct terms than MaxFeatures, the terms with the highest
// collection frequency are kept, ties broken by first appearance.
func (v *Vectorizer) fitVocabulary(docs [][]string) map[string]int {
	freq := make(map[string]int)
	order := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			if _, ok := freq[term]; !ok {
				order[term] = len(order)
			}
			freq[term]++
		}
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return order[terms[i]] < order[terms[j]]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}

// tokenize lowercases the text and splits it into runs of letters and
// digits, dropping single-character tokens and stop-words.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ngrams expands a token sequence into unigrams plus adjacent bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	grams := make([]string, 0, 2*len(tokens)-1)
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

// dotSparse computes the dot product of two sparse vectors, iterating
// the smaller one. Inputs are L2-normalized, so this is the cosine.
func dotSparse(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for col, av := range a {
		if bv, ok := b[col]; ok {
			dot += av * bv
		}
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// normalizeL2 scales a sparse vector to unit Euclidean length.
func normalizeL2(vec map[int]float64) {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for col := range vec {
		vec[col] /= norm
	}
}
