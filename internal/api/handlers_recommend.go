// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/recommend"
)

// recommendationRecord is the wire shape of a single scored item.
// The feature vector is deliberately omitted from responses.
type recommendationRecord struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func toRecommendationRecords(items []recommend.ScoredItem) []recommendationRecord {
	records := make([]recommendationRecord, len(items))
	for i, si := range items {
		records[i] = recommendationRecord{
			ID:    si.Item.ID,
			Title: si.Item.Title,
			Score: si.Score,
		}
	}
	return records
}

// Recommend handles POST /api/recommend, the legacy recommendation
// endpoint. The body is {"user_id": N} and the payload carries only the
// ordered titles, preserving the original wire contract.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req struct {
		UserID *int `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if req.UserID == nil {
		rw.BadRequest("user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:    *req.UserID,
		RequestID: r.Header.Get("X-Request-ID"),
	})
	h.recordRecommendation(resp, err, time.Since(start))
	if err != nil {
		h.respondRecommendError(rw, *req.UserID, err)
		return
	}

	rw.Success(map[string]interface{}{
		"recommendations": resp.Titles(),
	})
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
// Returns full scored records with request metadata. The k query parameter
// overrides the configured default; values above the maximum are clamped
// by the engine.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		rw.BadRequest("Invalid user ID")
		return
	}

	query := RecommendationsQuery{K: getIntParam(r, "k", 0)}
	if apiErr := validateRequest(&query); apiErr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:    userID,
		K:         query.K,
		RequestID: r.Header.Get("X-Request-ID"),
	})
	h.recordRecommendation(resp, err, time.Since(start))
	if err != nil {
		h.respondRecommendError(rw, userID, err)
		return
	}

	rw.Success(map[string]interface{}{
		"user_id":          userID,
		"recommendations":  toRecommendationRecords(resp.Items),
		"total_candidates": resp.TotalCandidates,
		"metadata":         resp.Metadata,
	})
}

// GetEngineStatus handles GET /api/v1/recommendations/status.
// Returns engine counters and the effective limits for operators.
func (h *Handler) GetEngineStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cfg := h.engine.GetConfig()
	rw.Success(map[string]interface{}{
		"ready":      h.engine.Ready(),
		"metrics":    h.engine.GetMetrics(),
		"cache_size": h.engine.CacheSize(),
		"metric":     cfg.Metric,
		"limits": map[string]interface{}{
			"default_k":      cfg.Limits.DefaultK,
			"max_k":          cfg.Limits.MaxK,
			"max_candidates": cfg.Limits.MaxCandidates,
		},
	})
}

// recordRecommendation translates one engine call into Prometheus metrics.
// Status labels stay fixed regardless of error text: "ok",
// "user_not_found", "invalid_argument", or "error".
func (h *Handler) recordRecommendation(resp *recommend.Response, err error, duration time.Duration) {
	metric := h.engine.GetConfig().Metric

	switch {
	case err == nil:
		metrics.RecordRecommendation(metric, "ok", duration, resp.TotalCandidates)
		if resp.Metadata.CacheHit {
			metrics.RecordCacheHit("response")
		} else {
			metrics.RecordCacheMiss("response")
		}
		metrics.UpdateCacheSize("response", int64(h.engine.CacheSize()))
	case errors.Is(err, recommend.ErrUserNotFound):
		metrics.RecordRecommendation(metric, "user_not_found", duration, 0)
	case errors.Is(err, recommend.ErrInvalidArgument):
		metrics.RecordRecommendation(metric, "invalid_argument", duration, 0)
	default:
		metrics.RecordRecommendation(metric, "error", duration, 0)
	}
}

// respondRecommendError maps engine errors onto API error responses.
func (h *Handler) respondRecommendError(rw *ResponseWriter, userID int, err error) {
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		rw.UserNotFound("User " + strconv.Itoa(userID) + " not found")
	case errors.Is(err, recommend.ErrDimensionMismatch):
		rw.Error(http.StatusInternalServerError, ErrCodeDimensionMismatch, "Stored vectors have inconsistent dimensions")
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Recommendation timed out")
	default:
		rw.InternalError("Failed to generate recommendations")
	}
}
