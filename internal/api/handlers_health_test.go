// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/recommend"
	"github.com/tomtom215/affinitas/internal/recommend/ranking"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	data := dataMap(t, decodeResponse(t, w))

	if data["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", data["status"])
	}
	if data["version"] != serviceVersion {
		t.Errorf("Expected version %s, got %v", serviceVersion, data["version"])
	}
	if data["engine_ready"] != true {
		t.Error("Expected engine_ready true")
	}
	if data["metric"] != "cosine" {
		t.Errorf("Expected metric cosine, got %v", data["metric"])
	}
	if data["dimension"].(float64) != 5 {
		t.Errorf("Expected dimension 5, got %v", data["dimension"])
	}
	if data["items"].(float64) != 5 {
		t.Errorf("Expected 5 items, got %v", data["items"])
	}
	if data["users"].(float64) != 2 {
		t.Errorf("Expected 2 users, got %v", data["users"])
	}
}

func TestHealthLive(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/health/live", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	data := dataMap(t, decodeResponse(t, w))
	if data["alive"] != true {
		t.Error("Expected alive true")
	}
}

func TestHealthReady(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/health/ready", "/api/v1/ready"} {
		w := doRequest(t, router, http.MethodGet, path, "")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200 for %s, got %d", path, w.Code)
		}
		data := dataMap(t, decodeResponse(t, w))
		if data["ready_to_serve"] != true {
			t.Errorf("Expected ready_to_serve true for %s", path)
		}
		if data["store_ready"] != true {
			t.Errorf("Expected store_ready true for %s", path)
		}
	}
}

// newUnwiredHandler builds a handler whose engine is missing its metric,
// so Ready reports false.
func newUnwiredHandler(t *testing.T) *Handler {
	t.Helper()

	logger := zerolog.Nop()
	store, err := vectorstore.New(vectorstore.DemoDimension, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	engine.SetDataProvider(store)
	engine.SetRanker(ranking.New(ranking.Config{}))

	return NewHandler(engine, store)
}

func TestHealthReady_EngineNotWired(t *testing.T) {
	h := newUnwiredHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	h.HealthReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Success {
		t.Error("Expected success false")
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
		t.Fatalf("Expected error code %s, got %+v", ErrCodeServiceUnavailable, resp.Error)
	}

	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected details object, got %T", resp.Error.Details)
	}
	if details["engine_ready"] != false {
		t.Error("Expected engine_ready false in details")
	}
	if details["store_ready"] != true {
		t.Error("Expected store_ready true in details")
	}
}

func TestHealth_DegradedWhenEngineNotWired(t *testing.T) {
	h := newUnwiredHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	data := dataMap(t, decodeResponse(t, w))
	if data["status"] != "degraded" {
		t.Errorf("Expected status degraded, got %v", data["status"])
	}
}
