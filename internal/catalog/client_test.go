// Abbrank - Abbreviation Catalog Recommendation Service
// Copyright 2026 Abbrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abbrank/abbrank

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL})
}

func TestFetchEntriesFlatEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/abbreviations" {
			t.Errorf("path = %q, want /api/abbreviations", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"id": 1, "abbreviation": "API", "meaning": "Application Programming Interface", "votes_count": 3},
			{"id": 2, "abbreviation": "SLA", "meaning": "Service Level Agreement"}
		]}`))
	})

	entries, err := client.FetchEntries(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != 1 || entries[0].Abbreviation != "API" || entries[0].VotesCount != 3 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
}

func TestFetchEntriesNestedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"data": [
			{"id": 7, "abbreviation": "TTL", "meaning": "Time To Live"}
		], "total": 1, "page": 1}}`))
	})

	entries, err := client.FetchEntries(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 7 {
		t.Fatalf("entries = %+v, want single entry with ID 7", entries)
	}
}

func TestFetchEntriesEmptyAndUnknownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{}`},
		{"null data", `{"data": null}`},
		{"unexpected shape", `{"data": {"entries": 12}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			entries, err := client.FetchEntries(context.Background(), 0)
			if err != nil {
				t.Fatalf("FetchEntries: %v", err)
			}
			if entries == nil || len(entries) != 0 {
				t.Errorf("entries = %v, want empty non-nil slice", entries)
			}
		})
	}
}

func TestFetchEntriesLimitQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit query = %q, want 10", got)
		}
		w.Write([]byte(`{"data": []}`))
	})

	if _, err := client.FetchEntries(context.Background(), 10); err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
}

func TestFetchEntriesErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	if _, err := client.FetchEntries(context.Background(), 0); err == nil {
		t.Fatal("FetchEntries on 502 = nil error, want error")
	}
}

func TestFetchEntriesMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	})

	if _, err := client.FetchEntries(context.Background(), 0); err == nil {
		t.Fatal("FetchEntries on truncated JSON = nil error, want error")
	}
}

func TestFetchUserData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ml/user-data/42" {
			t.Errorf("path = %q, want /api/ml/user-data/42", r.URL.Path)
		}
		w.Write([]byte(`{
			"department": "IT",
			"search_history": ["api", "rest"],
			"viewed_abbreviations": [1, 2],
			"voted_abbreviations": [3],
			"common_categories": ["Technology"]
		}`))
	})

	data, err := client.FetchUserData(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchUserData: %v", err)
	}
	if data.Department != "IT" {
		t.Errorf("department = %q, want IT", data.Department)
	}
	if len(data.SearchHistory) != 2 || len(data.ViewedEntries) != 2 || len(data.VotedEntries) != 1 {
		t.Errorf("unexpected payload: %+v", data)
	}
}

func TestFetchUserDataNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if _, err := client.FetchUserData(context.Background(), 9); err == nil {
		t.Fatal("FetchUserData on 404 = nil error, want error")
	}
}
