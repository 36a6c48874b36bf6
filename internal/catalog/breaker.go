// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package catalog

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/abbrank/abbrank/internal/logging"
	"github.com/abbrank/abbrank/internal/metrics"
	"github.com/abbrank/abbrank/internal/models"
)

// BreakerClient wraps a Fetcher with a circuit breaker so a failing
// backend cannot pile up blocked scoring requests. A rejected call is
// an ordinary fetch failure to the caller; the cache degrades it to
// stale-or-empty like any other.
//
// The breaker uses real time for its interval and timeout windows. Unit
// tests mock the underlying Fetcher instead of racing the breaker.
type BreakerClient struct {
	fetcher Fetcher
	cb      *gobreaker.CircuitBreaker[any]
	name    string
}

// NewBreakerClient wraps fetcher with a circuit breaker.
// Opens at a 60% failure rate over at least 10 requests, allows 3
// half-open probes, and waits 2 minutes before probing an open circuit.
func NewBreakerClient(fetcher Fetcher) *BreakerClient {
	const cbName = "catalog-backend"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening catalog backend circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).
				Msg("catalog backend circuit state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{fetcher: fetcher, cb: cb, name: cbName}
}

// FetchEntries implements Fetcher through the breaker.
func (b *BreakerClient) FetchEntries(ctx context.Context, limit int) ([]models.Entry, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.fetcher.FetchEntries(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Entry), nil
}

// FetchUserData implements Fetcher through the breaker.
func (b *BreakerClient) FetchUserData(ctx context.Context, userID int64) (*models.UserData, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.fetcher.FetchUserData(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.UserData), nil
}

// State returns the current breaker state for health reporting.
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
