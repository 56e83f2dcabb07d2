// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package middleware provides HTTP middleware shared by the API layer:
// request ID propagation for distributed tracing and a per-client token
// bucket limiter for catalog write routes.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/affinitas/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID middleware assigns a unique ID to each request and adds it
// to the response header and request context. IDs supplied by upstream
// proxies via X-Request-ID are preserved. The ID is also propagated into
// the logging context together with a fresh correlation ID so that every
// log line emitted while serving the request carries both.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			// Set on the request too so nested middleware sees the same ID.
			r.Header.Set("X-Request-ID", requestID)
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next(w, r.WithContext(ctx))
	}
}

// GetRequestID extracts the request ID from context. Returns an empty
// string when the middleware did not run.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
