// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewRouter(t *testing.T) {
	handler, _ := newTestHandler(t)
	chiMW := NewChiMiddlewareFromSecurity([]string{"*"}, 100, time.Minute, false)

	router := NewRouter(handler, chiMW, nil)

	if router == nil {
		t.Fatal("NewRouter returned nil")
	}
	if router.handler != handler {
		t.Error("Handler not set correctly")
	}
	if router.chiMiddleware != chiMW {
		t.Error("Middleware not set correctly")
	}
	if router.ingestLimiter != nil {
		t.Error("Expected nil ingest limiter to be preserved")
	}
}

func TestSetupChi_HealthEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"health live endpoint", "/api/v1/health/live"},
		{"health ready endpoint", "/api/v1/health/ready"},
		{"health summary endpoint", "/api/v1/health"},
		{"flat ready alias", "/api/v1/ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, "")

			if w.Code != http.StatusOK {
				t.Errorf("%s: expected status 200, got %d", tt.name, w.Code)
			}
		})
	}
}

func TestSetupChi_ReadEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"engine status endpoint", "/api/v1/recommendations/status"},
		{"recommendations endpoint", "/api/v1/recommendations/1"},
		{"items list endpoint", "/api/v1/items"},
		{"single item endpoint", "/api/v1/items/1"},
		{"users list endpoint", "/api/v1/users"},
		{"single user endpoint", "/api/v1/users/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, "")

			if w.Code != http.StatusOK {
				t.Errorf("%s: expected status 200, got %d", tt.name, w.Code)
			}
		})
	}
}

func TestSetupChi_WriteEndpointsRegistered(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// Empty bodies provoke 400s; the point is that every write route
	// resolves to its handler rather than 404/405.
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"item upsert endpoint", http.MethodPost, "/api/v1/items"},
		{"item bulk load endpoint", http.MethodPut, "/api/v1/items"},
		{"item delete endpoint", http.MethodDelete, "/api/v1/items/1"},
		{"user upsert endpoint", http.MethodPost, "/api/v1/users"},
		{"user bulk load endpoint", http.MethodPut, "/api/v1/users"},
		{"user delete endpoint", http.MethodDelete, "/api/v1/users/1"},
		{"legacy recommend endpoint", http.MethodPost, "/api/recommend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, tt.method, tt.path, "")

			if w.Code == http.StatusNotFound {
				t.Errorf("%s: endpoint not found (404)", tt.name)
			}
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("%s: method not allowed (405)", tt.name)
			}
		})
	}
}

func TestSetupChi_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/nonexistent", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	if code := errorCode(t, w); code != ErrCodeNotFound {
		t.Errorf("Expected error code %s, got %s", ErrCodeNotFound, code)
	}
}

func TestSetupChi_MethodNotAllowed(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPatch, "/api/v1/items", "")

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", w.Code)
	}
	if code := errorCode(t, w); code != ErrCodeMethodNotAllowed {
		t.Errorf("Expected error code %s, got %s", ErrCodeMethodNotAllowed, code)
	}
}

func TestSetupChi_MetricsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/metrics", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for /metrics, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") == "" {
		t.Error("Expected Content-Type header for metrics endpoint")
	}
}

func TestSetupChi_CORSHeaders(t *testing.T) {
	router, _, _ := newTestRouter(t)

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/items", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK && w.Code != http.StatusNoContent {
			t.Errorf("Preflight status = %d, want 200 or 204", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Access-Control-Allow-Methods should be set")
		}
	})
}

func TestSetupChi_RequestIDHeader(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/items", "")

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header on every response")
	}
}

func TestSetupChi_NilIngestLimiter(t *testing.T) {
	handler, _ := newTestHandler(t)
	chiMW := NewChiMiddlewareFromSecurity([]string{"*"}, 1000, time.Minute, false)
	router := NewRouter(handler, chiMW, nil)

	body := `{"id": 8, "title": "No Ingest Limiter", "vector": [1, 1, 0, 0, 0]}`
	w := doRequest(t, router.SetupChi(), http.MethodPost, "/api/v1/items", body)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201 without ingest limiter, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetupChi_SecurityHeaders(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/items", "")

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
