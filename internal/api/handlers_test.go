// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/middleware"
	"github.com/tomtom215/affinitas/internal/recommend"
	"github.com/tomtom215/affinitas/internal/recommend/ranking"
	"github.com/tomtom215/affinitas/internal/recommend/similarity"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// newTestHandler builds a handler over a fully wired engine and a store
// seeded with the demo dataset.
func newTestHandler(t *testing.T) (*Handler, *vectorstore.Store) {
	t.Helper()

	logger := zerolog.Nop()
	store, err := vectorstore.New(vectorstore.DemoDimension, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.SeedDemoData(); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	cfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	engine.SetDataProvider(store)

	metricFn, err := similarity.Provider(cfg.Metric)
	if err != nil {
		t.Fatalf("Failed to resolve metric: %v", err)
	}
	engine.SetMetric(cfg.Metric, metricFn)
	engine.SetRanker(ranking.New(ranking.Config{}))

	return NewHandler(engine, store), store
}

// newTestRouter builds the full route tree with permissive rate limits.
func newTestRouter(t *testing.T) (http.Handler, *Handler, *vectorstore.Store) {
	t.Helper()

	handler, store := newTestHandler(t)

	ingest := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(ingest.Stop)

	chiMW := NewChiMiddlewareFromSecurity([]string{"*"}, 1000, time.Minute, false)
	router := NewRouter(handler, chiMW, ingest)
	return router.SetupChi(), handler, store
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response body %q: %v", w.Body.String(), err)
	}
	return resp
}

func dataMap(t *testing.T, resp APIResponse) map[string]interface{} {
	t.Helper()

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data to be an object, got %T", resp.Data)
	}
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	resp := decodeResponse(t, w)
	if resp.Success {
		t.Fatal("Expected an error response, got success")
	}
	if resp.Error == nil {
		t.Fatal("Expected error details to be present")
	}
	return resp.Error.Code
}
