// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/abbrank/abbrank/internal/logging"
)

// statusSuccess and statusError are the two values of the envelope's
// status field. Clients branch on this field, so the strings are part
// of the wire contract.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// errorResponse is the error envelope shared by all endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with proper headers. Encoding
// failures are logged, not surfaced; the status line is already gone.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeSuccess writes a 200 response. payload must carry its own
// status field set to success.
func writeSuccess(w http.ResponseWriter, r *http.Request, payload interface{}) {
	writeJSON(w, r, http.StatusOK, payload)
}

// writeError writes an error envelope with the given HTTP status.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, r, statusCode, errorResponse{
		Status:  statusError,
		Message: message,
	})
}

// writeBadRequest writes a 400 error envelope.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, message)
}

// writeInternalError logs the error and writes a 500 envelope carrying
// message, not the error itself, so internals never leak to the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
	writeError(w, r, http.StatusInternalServerError, message)
}
