// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package recommend

import (
	"context"
	"math"
	"time"
)

// Vector is an ordered sequence of numeric components. Every vector in a
// store instance shares the same fixed dimensionality D, and all
// components are finite (no NaN, no Inf).
type Vector []float64

// Clone returns an independent copy of the vector.
// Returns nil for a nil vector.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Validate checks the vector against the expected dimensionality and
// rejects non-finite components. Returns a DimensionError on length
// mismatch and ErrNonFinite on NaN or Inf components.
func (v Vector) Validate(dim int) error {
	if len(v) != dim {
		return NewDimensionError(dim, len(v))
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrNonFinite
		}
	}
	return nil
}

// Item represents a catalog entry with its feature vector.
type Item struct {
	// ID is the unique, stable item identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Vector is the item's feature vector.
	Vector Vector `json:"vector"`
}

// User represents a user with a preference vector. Users live in a
// separate store namespace from items.
type User struct {
	// ID is the unique user identifier.
	ID int `json:"id"`

	// Vector is the user's preference vector.
	Vector Vector `json:"vector"`
}

// ScoredItem pairs an item with its similarity score. Instances are
// constructed per-request by the ranker and discarded after the response.
type ScoredItem struct {
	// Item is the scored catalog entry.
	Item Item `json:"item"`

	// Score is the similarity score, in [-1, 1] for the cosine metric.
	Score float64 `json:"score"`
}

// Request represents a recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID int `json:"user_id"`

	// K is the number of recommendations to return.
	// Defaults to Config.Limits.DefaultK if zero; values above
	// Config.Limits.MaxK are clamped.
	K int `json:"k,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	// Items is the ordered list of scored items, highest score first.
	Items []ScoredItem `json:"items"`

	// TotalCandidates is the number of candidate items considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// Titles returns the ordered item titles of the response.
func (r *Response) Titles() []string {
	titles := make([]string, len(r.Items))
	for i, si := range r.Items {
		titles[i] = si.Item.Title
	}
	return titles
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the recommendations are for.
	UserID int `json:"user_id"`

	// Metric is the similarity metric used for scoring.
	Metric string `json:"metric"`

	// K is the effective K after defaulting and clamping.
	K int `json:"k"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// MetricFunc computes a bounded similarity score between two equal-length
// vectors. Implementations must be pure: no side effects, deterministic,
// and safe to call concurrently without synchronization. A length mismatch
// yields a DimensionError.
type MetricFunc func(a, b []float64) (float64, error)

// UserSource provides user preference vectors.
type UserSource interface {
	// User returns the user with the given identifier.
	// The second return value reports whether the user exists.
	User(id int) (User, bool)
}

// CatalogSource provides candidate items for scoring.
type CatalogSource interface {
	// Items returns all catalog items in stable enumeration order.
	// The returned slice shares no memory with the source.
	Items() []Item
}

// DataProvider combines the user and catalog sources consumed by the
// engine. This is typically implemented by the vectorstore package.
type DataProvider interface {
	UserSource
	CatalogSource
}

// Ranker selects the top-K highest scoring candidates for a query vector.
type Ranker interface {
	// Name returns the ranker identifier (e.g., "heap").
	Name() string

	// TopK scores candidates against the query with the given metric
	// and returns at most k results in descending score order, ties
	// broken by the candidates' original order. k <= 0 yields
	// ErrInvalidArgument; an empty candidate slice yields an empty
	// result.
	TopK(ctx context.Context, query Vector, candidates []Item, k int, metric MetricFunc) ([]ScoredItem, error)
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "mmr").
	Name() string

	// Rerank reorders scored items to optimize a secondary objective.
	// The input is already sorted by relevance. Returns up to k items.
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// Metrics contains engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of response cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of response cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// ErrorCount is the total number of failed requests.
	ErrorCount int64 `json:"error_count"`
}
