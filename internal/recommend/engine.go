// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine orchestrates the recommendation pipeline: resolve user, fetch
// candidates, score, rank, respond. It is safe for concurrent use and is
// strictly read-only with respect to its data provider.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Injected collaborators
	dataProvider DataProvider
	ranker       Ranker
	metric       MetricFunc
	metricName   string

	// Registered rerankers
	rerankers []Reranker
	rerankMu  sync.RWMutex

	// Counters
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64

	// Response cache (simple in-memory TTL map)
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	// Random source for request IDs (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// cacheEntry holds a cached recommendation response.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "engine").Logger(),
		rerankers: make([]Reranker, 0),
		cache:     make(map[string]cacheEntry),
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for request IDs
	}, nil
}

// SetDataProvider sets the user and catalog source.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// SetMetric sets the similarity metric used for scoring.
// The name appears in response metadata and cache keys.
func (e *Engine) SetMetric(name string, fn MetricFunc) {
	e.metric = fn
	e.metricName = name
	e.logger.Info().
		Str("metric", name).
		Msg("metric selected")
}

// SetRanker sets the top-K selector.
func (e *Engine) SetRanker(r Ranker) {
	e.ranker = r
	e.logger.Info().
		Str("ranker", r.Name()).
		Msg("ranker selected")
}

// RegisterReranker adds a reranker to the post-processing pipeline.
// Rerankers only run when Config.Rerank.Enabled is true.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rerankMu.Lock()
	defer e.rerankMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Ready reports whether all mandatory collaborators are wired.
func (e *Engine) Ready() bool {
	return e.dataProvider != nil && e.ranker != nil && e.metric != nil
}

// Recommend generates recommendations for a user.
//
// The pipeline never mutates store state. An unknown user yields
// ErrUserNotFound; an empty catalog yields an empty item list, not an
// error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if e.dataProvider == nil {
		return nil, fmt.Errorf("data provider not set")
	}
	if e.ranker == nil {
		return nil, fmt.Errorf("ranker not set")
	}
	if e.metric == nil {
		return nil, fmt.Errorf("metric not set")
	}

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	// Resolve the user before consulting the cache so that an unknown
	// user is always reported, never served a stale entry.
	user, ok := e.dataProvider.User(req.UserID)
	if !ok {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("user %d: %w", req.UserID, ErrUserNotFound)
	}

	if resp := e.tryGetCachedResponse(req, start, logger); resp != nil {
		return resp, nil
	}

	candidates := e.dataProvider.Items()
	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		return e.emptyResponse(req, start), nil
	}
	if limit := e.config.Limits.MaxCandidates; limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ranked, err := e.ranker.TopK(ctx, user.Vector, candidates, req.K, e.metric)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	ranked = e.applyRerankers(ctx, ranked, req.K)

	resp := e.buildResponse(req, ranked, len(candidates), start)
	e.cacheResponse(req, resp)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = e.generateRequestID()
	}

	if req.K == 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}

	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Int("k", req.K).
		Logger()
}

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(req Request, start time.Time, logger zerolog.Logger) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	resp := e.checkCache(e.cacheKey(req))
	if resp == nil {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp.Metadata.CacheHit = true
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// applyRerankers applies registered rerankers to the ranked items.
func (e *Engine) applyRerankers(ctx context.Context, items []ScoredItem, k int) []ScoredItem {
	if !e.config.Rerank.Enabled {
		return items
	}

	e.rerankMu.RLock()
	rerankers := e.rerankers
	e.rerankMu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items, k)
	}

	return items
}

// buildResponse constructs the final response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, items []ScoredItem, totalCandidates int, start time.Time) *Response {
	return &Response{
		Items:           items,
		TotalCandidates: totalCandidates,
		Metadata:        e.buildResponseMetadata(req, start, false),
	}
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponseMetadata(req Request, start time.Time, cacheHit bool) ResponseMetadata {
	return ResponseMetadata{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Metric:    e.metricName,
		K:         req.K,
		LatencyMS: time.Since(start).Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now(),
	}
}

// emptyResponse returns an empty response for a degenerate catalog.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Items:           []ScoredItem{},
		TotalCandidates: 0,
		Metadata:        e.buildResponseMetadata(req, start, false),
	}
}

// cacheResponse stores the response in cache if enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(req Request, resp *Response) {
	if e.config.Cache.Enabled {
		e.storeCache(e.cacheKey(req), resp)
	}
}

// cacheKey generates a cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	return fmt.Sprintf("rec:%d:%d:%s", req.UserID, req.K, e.metricName)
}

// checkCache checks if a cached response exists and is valid.
// Returns a copy of the cached response to avoid concurrent modification.
func (e *Engine) checkCache(key string) *Response {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[key]
	if !ok {
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		return nil
	}

	return e.copyCachedResponse(entry.response)
}

// copyCachedResponse creates a copy of a cached response.
func (e *Engine) copyCachedResponse(resp *Response) *Response {
	items := make([]ScoredItem, len(resp.Items))
	copy(items, resp.Items)

	return &Response{
		Items:           items,
		TotalCandidates: resp.TotalCandidates,
		Metadata:        resp.Metadata, // Metadata is a value type, safe to copy
	}
}

// storeCache stores a response in the cache.
func (e *Engine) storeCache(key string, resp *Response) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.evictIfCacheFull()

	e.cache[key] = cacheEntry{
		response:  resp,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictIfCacheFull evicts expired entries if the cache is at capacity.
// Must be called with cacheMu held.
func (e *Engine) evictIfCacheFull() {
	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
}

// evictExpiredLocked removes expired cache entries.
// Must be called with cacheMu held.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}
}

// InvalidateCache removes all cached responses. The event consumer calls
// this when the catalog or a user profile changes.
func (e *Engine) InvalidateCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.cache = make(map[string]cacheEntry)
	e.logger.Debug().Msg("response cache invalidated")
}

// PruneExpired removes expired cache entries and returns how many were
// evicted. Expired entries otherwise linger until the cache fills or the
// key is looked up again, so a periodic sweep keeps CacheSize honest.
func (e *Engine) PruneExpired() int {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	before := len(e.cache)
	e.evictExpiredLocked()
	return before - len(e.cache)
}

// CacheSize returns the number of cached responses, including entries
// that have expired but not yet been evicted.
func (e *Engine) CacheSize() int {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return len(e.cache)
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// generateRequestID generates a unique request ID for tracing.
// This method is safe for concurrent use.
func (e *Engine) generateRequestID() string {
	e.rngMu.Lock()
	n := e.rng.Intn(10000)
	e.rngMu.Unlock()
	return fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), n)
}
