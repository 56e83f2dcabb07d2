// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"
	"time"
)

// serviceVersion is reported by the health endpoints.
const serviceVersion = "1.0.0"

// Health handles GET /api/v1/health. Returns a status summary including
// store sizes and engine readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engineReady := h.engine.Ready()
	status := "healthy"
	if !engineReady {
		status = "degraded"
	}

	cfg := h.engine.GetConfig()
	rw.Success(map[string]interface{}{
		"status":       status,
		"version":      serviceVersion,
		"engine_ready": engineReady,
		"metric":       cfg.Metric,
		"dimension":    h.store.Dimension(),
		"items":        h.store.ItemCount(),
		"users":        h.store.UserCount(),
		"uptime":       time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles GET /api/v1/health/live (Kubernetes liveness probe).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	rw.Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready (Kubernetes readiness
// probe). Ready means the engine is fully wired and the store has a
// configured dimension; an empty catalog is still a legal serving state.
// Returns 503 when not ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engineReady := h.engine.Ready()
	storeReady := h.store.Dimension() > 0
	ready := engineReady && storeReady

	details := map[string]interface{}{
		"ready_to_serve": ready,
		"engine_ready":   engineReady,
		"store_ready":    storeReady,
		"items":          h.store.ItemCount(),
		"users":          h.store.UserCount(),
		"uptime":         time.Since(h.startTime).Seconds(),
	}

	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", details)
		return
	}

	rw.Success(details)
}
