// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/abbrank/abbrank/internal/catalog"
	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/models"
	"github.com/abbrank/abbrank/internal/recommend"
)

// serviceName identifies the service in the root payload.
const serviceName = "abbrank"

// Recommender is the engine capability the handlers need. Satisfied by
// *recommend.Engine; tests substitute a stub.
type Recommender interface {
	RecommendForUser(ctx context.Context, userID int64, data *models.UserData, limit int) []models.ScoredEntry
	FallbackRecommendations(ctx context.Context) []models.ScoredEntry
	Trending(ctx context.Context, limit int) []models.ScoredEntry
	Similar(ctx context.Context, query string, limit int) ([]models.SimilarEntry, error)
	SimilarForEntry(ctx context.Context, entryID int64, limit int) ([]models.SimilarEntry, bool)
	TrainModel(ctx context.Context, entries []models.Entry) (int, error)
	Profile(ctx context.Context, userID int64) recommend.UserFeatures
	CatalogStats() catalog.CacheStats
	ModelTrained() bool
}

// Handler serves the HTTP API.
type Handler struct {
	engine   Recommender
	validate *validator.Validate
	log      zerolog.Logger
	started  time.Time
}

// NewHandler creates the API handler around an engine.
func NewHandler(engine Recommender) *Handler {
	return &Handler{
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logging.WithComponent("api"),
		started:  time.Now(),
	}
}

// Root handles GET / with a minimal liveness payload.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}{
		Status:  "ok",
		Service: serviceName,
	})
}

// Health handles GET /health with model and cache state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.CatalogStats()
	writeSuccess(w, r, struct {
		Status       string `json:"status"`
		Timestamp    string `json:"timestamp"`
		ModelTrained bool   `json:"model_trained"`
		Cache        struct {
			Entries     int   `json:"entries"`
			AgeSeconds  int64 `json:"age_seconds"`
			Hits        int64 `json:"hits"`
			Misses      int64 `json:"misses"`
			StaleServes int64 `json:"stale_serves"`
		} `json:"cache"`
	}{
		Status:       "healthy",
		Timestamp:    time.Now().Format(time.RFC3339),
		ModelTrained: h.engine.ModelTrained(),
		Cache: struct {
			Entries     int   `json:"entries"`
			AgeSeconds  int64 `json:"age_seconds"`
			Hits        int64 `json:"hits"`
			Misses      int64 `json:"misses"`
			StaleServes int64 `json:"stale_serves"`
		}{
			Entries:     stats.Entries,
			AgeSeconds:  int64(stats.SnapshotAge.Seconds()),
			Hits:        stats.Hits,
			Misses:      stats.Misses,
			StaleServes: stats.StaleServes,
		},
	})
}

// recommendationsResponse is shared by the personalized and general
// recommendation endpoints.
type recommendationsResponse struct {
	Status          string               `json:"status"`
	UserID          *int64               `json:"user_id,omitempty"`
	Recommendations []models.ScoredEntry `json:"recommendations"`
}

// GeneralRecommendations handles GET /recommendations: the anonymous
// fallback path, trimmed to the requested limit.
func (h *Handler) GeneralRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	results := h.engine.FallbackRecommendations(r.Context())
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	writeSuccess(w, r, recommendationsResponse{
		Status:          statusSuccess,
		Recommendations: results,
	})
}

// Recommendations handles GET and POST /recommendations/{userID}. The
// POST body may carry inline user data and a limit.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req recommendRequest
	if r.Method == http.MethodPost {
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, r, "invalid JSON body")
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			writeBadRequest(w, r, err.Error())
			return
		}
	}

	results := h.engine.RecommendForUser(r.Context(), userID, req.UserData, req.Limit)
	writeSuccess(w, r, recommendationsResponse{
		Status:          statusSuccess,
		UserID:          &userID,
		Recommendations: results,
	})
}

// Trending handles GET /recommendations/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	writeSuccess(w, r, struct {
		Status   string               `json:"status"`
		Trending []models.ScoredEntry `json:"trending"`
	}{
		Status:   statusSuccess,
		Trending: h.engine.Trending(r.Context(), limit),
	})
}

// similarResponse is the payload of POST /similar-abbreviations.
type similarResponse struct {
	Status  string                `json:"status"`
	Query   string                `json:"query"`
	Similar []models.SimilarEntry `json:"similar_abbreviations"`
}

// Similar handles POST /similar-abbreviations.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}

	results, err := h.engine.Similar(r.Context(), req.Text, req.Limit)
	if err != nil {
		// The only engine error here is a blank query.
		writeBadRequest(w, r, "Text parameter is required")
		return
	}
	writeSuccess(w, r, similarResponse{
		Status:  statusSuccess,
		Query:   req.Text,
		Similar: results,
	})
}

// Train handles POST /train and POST /update-training: both refit the
// classifier, on inline training data when the body carries some, else
// on the current catalog.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}

	samples, err := h.engine.TrainModel(r.Context(), req.TrainingData)
	if err != nil {
		writeInternalError(w, r, err, "Failed to train model")
		return
	}
	writeSuccess(w, r, struct {
		Status          string `json:"status"`
		Message         string `json:"message"`
		TrainingSamples int    `json:"training_samples"`
	}{
		Status:          statusSuccess,
		Message:         "Model trained successfully",
		TrainingSamples: samples,
	})
}

// TrackInteraction handles POST /track-interaction. Interactions are
// logged for offline analysis; there is no ingestion pipeline.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var req trackInteractionRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", req.UserID).
		Int64("abbreviation_id", req.AbbreviationID).
		Str("interaction_type", req.InteractionType).
		Msg("Interaction tracked")

	writeSuccess(w, r, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{
		Status:  statusSuccess,
		Message: "Interaction tracked",
	})
}

// userProfileResponse is the payload of GET /user-profile/{userID}.
type userProfileResponse struct {
	Status  string      `json:"status"`
	Profile userProfile `json:"user_profile"`
}

type userProfile struct {
	UserID      int64               `json:"user_id"`
	Preferences userPreferences     `json:"preferences"`
	History     userProfileActivity `json:"interaction_history"`
}

type userPreferences struct {
	Categories    []string `json:"categories"`
	Departments   []string `json:"departments"`
	ActivityLevel string   `json:"activity_level"`
}

type userProfileActivity struct {
	Searches        []string `json:"searches"`
	PreferredPeriod string   `json:"preferred_period"`
}

// UserProfile handles GET /user-profile/{userID}: the derived feature
// profile, for debugging and downstream personalization.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	features := h.engine.Profile(r.Context(), userID)

	departments := []string{}
	if features.Department != "" {
		departments = append(departments, features.Department)
	}
	categories := features.CommonCategories
	if categories == nil {
		categories = []string{}
	}
	searches := features.SearchHistory
	if searches == nil {
		searches = []string{}
	}

	writeSuccess(w, r, userProfileResponse{
		Status: statusSuccess,
		Profile: userProfile{
			UserID: userID,
			Preferences: userPreferences{
				Categories:    categories,
				Departments:   departments,
				ActivityLevel: activityLevelName(features.ActivityLevel),
			},
			History: userProfileActivity{
				Searches:        searches,
				PreferredPeriod: features.PreferredPeriod.String(),
			},
		},
	})
}

// batchRequest is the body of POST /batch-recommendations.
type batchRequest struct {
	UserIDs         []int64 `json:"user_ids" validate:"max=100"`
	AbbreviationIDs []int64 `json:"abbreviation_ids" validate:"max=100"`
}

// batchResponse is the payload of POST /batch-recommendations.
type batchResponse struct {
	Status  string       `json:"status"`
	Results batchResults `json:"results"`
}

type batchResults struct {
	UserRecommendations map[string][]models.ScoredEntry  `json:"user_recommendations,omitempty"`
	Similar             map[string][]models.SimilarEntry `json:"similar_abbreviations,omitempty"`
}

// BatchRecommendations handles POST /batch-recommendations: personalized
// results for a set of users and similarity results for a set of
// catalog entries in one round trip.
func (h *Handler) BatchRecommendations(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	var results batchResults
	if len(req.UserIDs) > 0 {
		results.UserRecommendations = make(map[string][]models.ScoredEntry, len(req.UserIDs))
		for _, userID := range req.UserIDs {
			key := strconv.FormatInt(userID, 10)
			results.UserRecommendations[key] = h.engine.RecommendForUser(r.Context(), userID, nil, 0)
		}
	}
	if len(req.AbbreviationIDs) > 0 {
		results.Similar = make(map[string][]models.SimilarEntry, len(req.AbbreviationIDs))
		for _, entryID := range req.AbbreviationIDs {
			key := strconv.FormatInt(entryID, 10)
			similar, found := h.engine.SimilarForEntry(r.Context(), entryID, 5)
			if !found {
				similar = []models.SimilarEntry{}
			}
			results.Similar[key] = similar
		}
	}

	writeSuccess(w, r, batchResponse{
		Status:  statusSuccess,
		Results: results,
	})
}

// pathUserID extracts and validates the integer userID path parameter,
// writing a 400 on failure.
func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 0 {
		writeBadRequest(w, r, "user ID must be a non-negative integer")
		return 0, false
	}
	return userID, true
}

// activityLevelName buckets a raw interaction count for the profile
// payload.
func activityLevelName(interactions int) string {
	switch {
	case interactions >= 20:
		return "high"
	case interactions >= 5:
		return "medium"
	default:
		return "low"
	}
}
