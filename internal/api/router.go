// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/affinitas/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	ingestLimiter *middleware.RateLimiter
}

// NewRouter creates a router around the handler. The ingest limiter is
// optional; when nil, catalog write routes rely on the per-IP limiter alone.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, ingestLimiter *middleware.RateLimiter) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		ingestLimiter: ingestLimiter,
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order. Request logging sits outside the
	// panic recoverer so recovered 500s are still logged.
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(RequestLogging())            // Structured request log line and metrics
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring probes are never starved
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealthProbes())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Flat readiness alias; same probe budget as the health subtree
	r.With(router.chiMiddleware.RateLimitHealthProbes(), APISecurityHeaders()).
		Get("/api/v1/ready", router.handler.HealthReady)

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/recommendations/status", router.handler.GetEngineStatus)
		r.Get("/recommendations/{userID}", router.handler.GetRecommendations)

		r.Get("/items", router.handler.ListItems)
		r.Get("/items/{itemID}", router.handler.GetItem)
		r.Get("/users", router.handler.ListUsers)
		r.Get("/users/{userID}", router.handler.GetUser)

		// Catalog writes carry the ingest token bucket on top of the
		// per-IP limit
		r.Group(func(r chi.Router) {
			if router.ingestLimiter != nil {
				r.Use(IngestRateLimit(router.ingestLimiter))
			}
			r.Post("/items", router.handler.UpsertItem)
			r.Put("/items", router.handler.LoadItems)
			r.Delete("/items/{itemID}", router.handler.DeleteItem)
			r.Post("/users", router.handler.UpsertUser)
			r.Put("/users", router.handler.LoadUsers)
			r.Delete("/users/{userID}", router.handler.DeleteUser)
		})
	})

	// ========================
	// Legacy Endpoint
	// ========================
	// Wire-compatible with the original demo service
	r.With(router.chiMiddleware.RateLimit(), APISecurityHeaders()).
		Post("/api/recommend", router.handler.Recommend)

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// Unmatched routes and methods answer with the standard envelope
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return r
}
