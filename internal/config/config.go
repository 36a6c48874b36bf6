// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package config defines Abbrank's configuration and loads it with
// Koanf v2 from layered sources: built-in defaults, an optional YAML
// file, then environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `koanf:"server"`

	// Backend configures the upstream catalog collaborator.
	Backend BackendConfig `koanf:"backend"`

	// Cache configures the catalog snapshot cache.
	Cache CacheConfig `koanf:"cache"`

	// Scoring configures ranking limits and timeouts.
	Scoring ScoringConfig `koanf:"scoring"`

	// Trending configures the trending scorer.
	Trending TrendingConfig `koanf:"trending"`

	// Logging configures log output.
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	// Zero disables rate limiting.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate-limit accounting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// BackendConfig configures the upstream catalog backend.
type BackendConfig struct {
	// URL is the backend base URL, e.g. http://backend:8000.
	URL string `koanf:"url"`

	// FetchTimeout bounds a catalog fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// UserDataTimeout bounds a per-user interaction fetch.
	UserDataTimeout time.Duration `koanf:"user_data_timeout"`

	// RatePerSecond paces outbound requests to the backend.
	// Zero disables pacing.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// CacheConfig configures the catalog snapshot cache.
type CacheConfig struct {
	// TTL is how long a snapshot is considered fresh.
	TTL time.Duration `koanf:"ttl"`

	// RefreshInterval is how often the background refresher re-warms
	// the cache. Zero disables the refresher.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// ScoringConfig configures ranking behavior.
type ScoringConfig struct {
	// DefaultLimit is the result count when the caller does not ask
	// for one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the result count a caller may request.
	MaxLimit int `koanf:"max_limit"`

	// RequestTimeout bounds one scoring request end to end.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// TrendingConfig configures the trending scorer.
type TrendingConfig struct {
	// HighActivityCategories is the category set that earns the
	// trending category bonus. Matching is case-insensitive. The
	// default membership mirrors the catalog's historical list,
	// localized aliases included.
	HighActivityCategories []string `koanf:"high_activity_categories"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// defaultConfig returns the built-in defaults. These mirror the behavior
// of the catalog application this service was extracted from: 300s cache
// TTL, 15s catalog fetch timeout, 10s user-data timeout, top-10 results.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Backend: BackendConfig{
			URL:             "http://backend:8000",
			FetchTimeout:    15 * time.Second,
			UserDataTimeout: 10 * time.Second,
			RatePerSecond:   0,
		},
		Cache: CacheConfig{
			TTL:             5 * time.Minute,
			RefreshInterval: 5 * time.Minute,
		},
		Scoring: ScoringConfig{
			DefaultLimit:   10,
			MaxLimit:       100,
			RequestTimeout: 10 * time.Second,
		},
		Trending: TrendingConfig{
			HighActivityCategories: []string{
				"tehnologija", "technology", "it", "poslovanje", "business",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values the service cannot run
// with. Called by Load; exposed for tests and manual construction.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("backend.url must be set")
	}
	if c.Backend.FetchTimeout <= 0 {
		return fmt.Errorf("backend.fetch_timeout must be positive")
	}
	if c.Backend.UserDataTimeout <= 0 {
		return fmt.Errorf("backend.user_data_timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Scoring.DefaultLimit <= 0 {
		return fmt.Errorf("scoring.default_limit must be positive")
	}
	if c.Scoring.MaxLimit < c.Scoring.DefaultLimit {
		return fmt.Errorf("scoring.max_limit %d below default_limit %d",
			c.Scoring.MaxLimit, c.Scoring.DefaultLimit)
	}
	if c.Scoring.RequestTimeout <= 0 {
		return fmt.Errorf("scoring.request_timeout must be positive")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
