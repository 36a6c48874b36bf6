// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/abbrank/abbrank/internal/models"
)

// maxBodyBytes bounds request bodies. Inline user data and training
// payloads are small; anything larger is abuse.
const maxBodyBytes = 1 << 20

// similarRequest is the body of POST /similar-abbreviations.
type similarRequest struct {
	// Text is the free-form query to match against the catalog.
	Text string `json:"text" validate:"required"`

	// Limit is the maximum result count; defaults when zero.
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

// recommendRequest is the body of POST /recommendations/{userID}.
type recommendRequest struct {
	// UserData optionally carries the user's profile inline, skipping
	// the backend fetch.
	UserData *models.UserData `json:"user_data"`

	// Limit is the maximum result count; defaults when zero.
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

// trainRequest is the body of POST /train and POST /update-training.
type trainRequest struct {
	// TrainingData optionally carries the entries to train on; the
	// current catalog is used when absent.
	TrainingData []models.Entry `json:"training_data"`
}

// trackInteractionRequest is the body of POST /track-interaction.
type trackInteractionRequest struct {
	UserID          int64  `json:"user_id" validate:"required"`
	AbbreviationID  int64  `json:"abbreviation_id" validate:"required"`
	InteractionType string `json:"interaction_type" validate:"required"`
}

// decodeBody decodes a JSON request body into dst. An empty body is
// accepted and leaves dst zero-valued, matching clients that POST
// without a payload.
func decodeBody(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// queryLimit parses the limit query parameter, returning 0 when absent
// so the engine's default applies. Malformed values are an error.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return limit, nil
}
