// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package catalog talks to the upstream catalog backend and caches the
// entry catalog it returns.
//
// The backend is the system of record; this service only reads from it.
// Two endpoints are consumed:
//
//   - GET {base}/api/abbreviations[?limit=N]   -> entry catalog
//   - GET {base}/api/ml/user-data/{userID}     -> user interaction payload
//
// The catalog endpoint answers with either a flat entry list or a nested
// pagination envelope ({"data": {"data": [...]}}), depending on the
// backend version. Both shapes must stay accepted; they are normalized
// to a flat slice at this boundary.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/metrics"
	"github.com/abbrank/abbrank/internal/models"
)

// maxErrorBodySize bounds how much of an error response body is read
// for diagnostics.
const maxErrorBodySize = 64 * 1024

// ClientConfig configures the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL, without a trailing slash.
	BaseURL string

	// FetchTimeout bounds one catalog fetch. Default 15s.
	FetchTimeout time.Duration

	// UserDataTimeout bounds one user-data fetch. Default 10s.
	UserDataTimeout time.Duration

	// RatePerSecond paces outbound requests. Zero disables pacing.
	RatePerSecond float64
}

// Fetcher is the read interface against the catalog backend. Implemented
// by Client for production and by mocks in tests; BreakerClient wraps any
// Fetcher with circuit breaking.
type Fetcher interface {
	// FetchEntries returns the entry catalog. limit <= 0 fetches all.
	FetchEntries(ctx context.Context, limit int) ([]models.Entry, error)

	// FetchUserData returns the interaction payload for one user.
	FetchUserData(ctx context.Context, userID int64) (*models.UserData, error)
}

// Client is the HTTP implementation of Fetcher. Safe for concurrent use.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	fetchTimeout    time.Duration
	userDataTimeout time.Duration
	limiter         *rate.Limiter
	log             zerolog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.UserDataTimeout <= 0 {
		cfg.UserDataTimeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		baseURL:         cfg.BaseURL,
		httpClient:      &http.Client{},
		fetchTimeout:    cfg.FetchTimeout,
		userDataTimeout: cfg.UserDataTimeout,
		limiter:         limiter,
		log:             logging.With().Str("component", "catalog").Logger(),
	}
}

// entriesEnvelope is the outer response shape of the catalog endpoint.
// Data is either a flat entry array or a pagination envelope whose own
// "data" field holds the array.
type entriesEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// paginationEnvelope is the nested shape emitted by paginated backends.
type paginationEnvelope struct {
	Data []models.Entry `json:"data"`
}

// FetchEntries returns the entry catalog, normalized to a flat slice.
func (c *Client) FetchEntries(ctx context.Context, limit int) ([]models.Entry, error) {
	url := c.baseURL + "/api/abbreviations"
	if limit > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, limit)
	}

	body, err := c.get(ctx, "abbreviations", url, c.fetchTimeout)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("abbreviations", "error").Inc()
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	metrics.BackendRequestsTotal.WithLabelValues("abbreviations", "success").Inc()
	c.log.Debug().Int("entries", len(entries)).Msg("fetched catalog")
	return entries, nil
}

// decodeEntries resolves the flat-vs-envelope union into a flat slice.
// An unrecognized data shape decodes to an empty catalog, matching the
// backend contract for responses without entries.
func decodeEntries(body []byte) ([]models.Entry, error) {
	var outer entriesEnvelope
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, err
	}
	if len(outer.Data) == 0 {
		return []models.Entry{}, nil
	}

	var flat []models.Entry
	if err := json.Unmarshal(outer.Data, &flat); err == nil {
		return flat, nil
	}

	var nested paginationEnvelope
	if err := json.Unmarshal(outer.Data, &nested); err == nil {
		if nested.Data == nil {
			return []models.Entry{}, nil
		}
		return nested.Data, nil
	}

	return []models.Entry{}, nil
}

// FetchUserData returns the interaction payload for one user. Callers
// degrade any error to "no personalization".
func (c *Client) FetchUserData(ctx context.Context, userID int64) (*models.UserData, error) {
	url := fmt.Sprintf("%s/api/ml/user-data/%d", c.baseURL, userID)

	body, err := c.get(ctx, "user-data", url, c.userDataTimeout)
	if err != nil {
		return nil, err
	}

	var data models.UserData
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("user-data", "error").Inc()
		return nil, fmt.Errorf("decode user data: %w", err)
	}

	metrics.BackendRequestsTotal.WithLabelValues("user-data", "success").Inc()
	return &data, nil
}

// get performs one GET with the given timeout and returns the body.
func (c *Client) get(ctx context.Context, endpoint, url string, timeout time.Duration) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if reqCtx.Err() != nil {
			outcome = "timeout"
		}
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
		return nil, fmt.Errorf("backend request %s: %w", endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("backend request %s: status %d: %s",
			endpoint, resp.StatusCode, readBodyForError(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		body = append(body, []byte("... (truncated)")...)
	}
	return body
}
