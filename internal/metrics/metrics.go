// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Recommendation request latency and outcomes
// - Vector store size and mutation throughput
// - API endpoint latency and throughput
// - Cache efficiency
// - Catalog event processing

var (
	// Recommendation Engine Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"metric", "status"}, // status: "ok", "user_not_found", "invalid_argument", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}, // In-memory scoring is sub-millisecond for small catalogs
		},
		[]string{"metric"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of candidate items scored per recommendation request",
			Buckets: []float64{5, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// Vector Store Metrics
	StoreItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vectorstore_items",
			Help: "Current number of item vectors in the store",
		},
	)

	StoreUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vectorstore_users",
			Help: "Current number of user vectors in the store",
		},
	)

	StoreDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vectorstore_dimension",
			Help: "Configured vector dimensionality of the store",
		},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorstore_operations_total",
			Help: "Total number of vector store mutations",
		},
		[]string{"namespace", "operation"}, // namespace: "items", "users"; operation: "upsert", "delete", "load"
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorstore_operation_errors_total",
			Help: "Total number of rejected vector store mutations",
		},
		[]string{"namespace", "operation", "reason"}, // reason: "dimension_mismatch", "invalid_vector"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}, // Optimized for in-memory read latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "engine", "api"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or invalidation)",
		},
		[]string{"cache_type"},
	)

	// Catalog Event Metrics
	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Total number of catalog events published to the bus",
		},
	)

	EventsPublishFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_publish_failed_total",
			Help: "Total number of catalog events that failed to publish",
		},
	)

	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_consumed_total",
			Help: "Total number of catalog events consumed from the bus",
		},
	)

	EventsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_processed_total",
			Help: "Total number of catalog events successfully processed",
		},
	)

	EventsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_deduplicated_total",
			Help: "Total number of catalog events skipped as duplicates",
		},
	)

	EventsParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_parse_failed_total",
			Help: "Total number of catalog events that failed to parse",
		},
	)

	EventProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_event_processing_duration_seconds",
			Help:    "Duration of catalog event processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRecommendation records the outcome of a recommendation request.
// Status is one of "ok", "user_not_found", "invalid_argument", "error";
// callers map engine errors onto these values so label cardinality stays
// fixed regardless of error text.
func RecordRecommendation(metric, status string, duration time.Duration, candidates int) {
	RecommendationRequests.WithLabelValues(metric, status).Inc()
	RecommendationDuration.WithLabelValues(metric).Observe(duration.Seconds())
	if candidates > 0 {
		RecommendationCandidates.Observe(float64(candidates))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreOperation records a successful vector store mutation
func RecordStoreOperation(namespace, operation string) {
	StoreOperations.WithLabelValues(namespace, operation).Inc()
}

// RecordStoreOperationError records a rejected vector store mutation
func RecordStoreOperationError(namespace, operation, reason string) {
	StoreOperationErrors.WithLabelValues(namespace, operation, reason).Inc()
}

// UpdateStoreSizes updates the store size gauges after a mutation or load
func UpdateStoreSizes(items, users int) {
	StoreItems.Set(float64(items))
	StoreUsers.Set(float64(users))
}

// RecordCacheHit records a cache hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// UpdateCacheSize updates the entry-count gauge for the given cache type
func UpdateCacheSize(cacheType string, entries int64) {
	CacheSize.WithLabelValues(cacheType).Set(float64(entries))
}

// RecordEventPublished records a catalog event published to the bus
func RecordEventPublished() {
	EventsPublished.Inc()
}

// RecordEventPublishFailed records a catalog event that failed to publish
func RecordEventPublishFailed() {
	EventsPublishFailed.Inc()
}

// RecordEventConsumed records a catalog event consumed from the bus
func RecordEventConsumed() {
	EventsConsumed.Inc()
}

// RecordEventProcessed records a catalog event successfully processed
func RecordEventProcessed() {
	EventsProcessed.Inc()
}

// RecordEventDeduplicated records a catalog event skipped as a duplicate
func RecordEventDeduplicated() {
	EventsDeduplicated.Inc()
}

// RecordEventParseFailed records a catalog event that failed to parse
func RecordEventParseFailed() {
	EventsParseFailed.Inc()
}

// RecordEventProcessing records the duration of catalog event processing
func RecordEventProcessing(duration time.Duration) {
	EventProcessingDuration.Observe(duration.Seconds())
}
