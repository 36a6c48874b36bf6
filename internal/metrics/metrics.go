// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package metrics exposes Prometheus instrumentation for the service:
// upstream fetch outcomes, catalog cache efficiency, circuit breaker
// state, scoring latency, and HTTP throughput.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream backend metrics

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abbrank_backend_requests_total",
			Help: "Total requests to the catalog backend by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, timeout
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "abbrank_backend_request_duration_seconds",
			Help:    "Duration of catalog backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Catalog cache metrics

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "abbrank_catalog_cache_hits_total",
			Help: "Catalog snapshot cache hits (fresh snapshot served)",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "abbrank_catalog_cache_misses_total",
			Help: "Catalog snapshot cache misses (refresh triggered)",
		},
	)

	CatalogCacheStaleServes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "abbrank_catalog_cache_stale_serves_total",
			Help: "Times a stale snapshot was served after a refresh failure",
		},
	)

	CatalogSnapshotEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "abbrank_catalog_snapshot_entries",
			Help: "Number of entries in the current catalog snapshot",
		},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "abbrank_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abbrank_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Scoring metrics

	ScoringRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abbrank_scoring_requests_total",
			Help: "Scoring operations by kind and outcome",
		},
		[]string{"operation", "outcome"}, // operation: hybrid, trending, similar, fallback, train
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "abbrank_scoring_duration_seconds",
			Help:    "Duration of scoring operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// HTTP metrics

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abbrank_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)
)
