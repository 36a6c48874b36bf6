// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

// Package api exposes the recommendation engine over HTTP.
//
// Every endpoint responds with a JSON envelope carrying a status field
// ("success" or "error"); error envelopes add a message. Scoring
// endpoints never fail on degraded upstream conditions, they serve
// whatever the engine can compute from cached or empty data.
package api
