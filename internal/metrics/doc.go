// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the recommendation pipeline end to end using the
Prometheus client library: request outcomes, scoring latency, store size,
cache efficiency, and catalog event throughput.

# Overview

The package provides metrics for:
  - Recommendation request latency, outcomes, and candidate set sizes
  - Vector store size, dimensionality, and mutation throughput
  - HTTP request latency and throughput
  - Cache hit/miss rates (engine response cache, API read cache)
  - Catalog event publishing and processing
  - Circuit breaker state for the event publisher

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommendation_requests_total: Total requests (counter)
    Labels: metric (cosine, dot, euclidean), status (ok, user_not_found,
    invalid_argument, error)
  - recommendation_duration_seconds: Request latency (histogram)
    Labels: metric
    Buckets: 100µs to 250ms (in-memory scoring)
  - recommendation_candidates: Candidate items scored per request (histogram)

Vector Store Metrics:
  - vectorstore_items / vectorstore_users: Current vector counts (gauges)
  - vectorstore_dimension: Configured dimensionality (gauge)
  - vectorstore_operations_total: Mutations (counter)
    Labels: namespace (items, users), operation (upsert, delete, load)
  - vectorstore_operation_errors_total: Rejected mutations (counter)
    Labels: namespace, operation, reason (dimension_mismatch, invalid_vector)

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Cache Metrics:
  - cache_hits_total / cache_misses_total: Cache traffic (counters)
    Labels: cache_type (engine, api)
  - cache_entries: Current entries (gauge)
    Labels: cache_type
  - cache_evictions_total: Evictions (counter)
    Labels: cache_type

Catalog Event Metrics:
  - catalog_events_published_total / catalog_events_publish_failed_total
  - catalog_events_consumed_total / catalog_events_processed_total
  - catalog_events_deduplicated_total / catalog_events_parse_failed_total
  - catalog_event_processing_duration_seconds (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge, 0=closed 1=half-open 2=open)
    Labels: name
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

# Usage Example

Recording a recommendation outcome from a handler:

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	status := "ok"
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
	    status = "user_not_found"
	case errors.Is(err, recommend.ErrInvalidArgument):
	    status = "invalid_argument"
	case err != nil:
	    status = "error"
	}
	metrics.RecordRecommendation(metricName, status, time.Since(start), candidates)

Recording HTTP metrics from middleware:

	func Metrics(next http.Handler) http.Handler {
	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	        start := time.Now()
	        metrics.TrackActiveRequest(true)
	        defer metrics.TrackActiveRequest(false)

	        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	        next.ServeHTTP(ww, r)

	        metrics.RecordAPIRequest(r.Method, routePattern(r),
	            strconv.Itoa(ww.Status()), time.Since(start))
	    })
	}

Updating store gauges after a mutation:

	store.UpsertItem(item)
	metrics.RecordStoreOperation("items", "upsert")
	metrics.UpdateStoreSizes(store.ItemCount(), store.UserCount())

# Example PromQL Queries

	# Recommendation request rate by outcome
	rate(recommendation_requests_total[5m])

	# Recommendation p95 latency per metric
	histogram_quantile(0.95, rate(recommendation_duration_seconds_bucket[5m]))

	# Engine cache hit rate
	sum(rate(cache_hits_total{cache_type="engine"}[5m]))
	/
	(sum(rate(cache_hits_total{cache_type="engine"}[5m]))
	 + sum(rate(cache_misses_total{cache_type="engine"}[5m])))

	# Catalog event throughput
	rate(catalog_events_processed_total[1m]) * 60

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, not raw URLs
  - Recommendation status is one of four fixed values; error text never
    becomes a label
  - User and item IDs are never used as labels
  - Metric names for similarity come from the fixed provider set

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/recommend: engine counters surfaced through RecordRecommendation
  - internal/events: catalog event metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
