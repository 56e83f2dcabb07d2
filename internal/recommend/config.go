// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Metric is the similarity metric used for scoring.
	// Default: "cosine"
	Metric string `json:"metric"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// Rerank contains diversity reranking parameters.
	Rerank RerankConfig `json:"rerank"`

	// Seed seeds the request-ID random source for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when a request
	// does not specify K.
	// Default: 3
	DefaultK int `json:"default_k"`

	// MaxK is the upper bound on K; larger requests are clamped.
	// Default: 50
	MaxK int `json:"max_k"`

	// MaxCandidates caps how many candidates are scanned per request.
	// Zero means unlimited: the whole catalog is scored.
	// Default: 0
	MaxCandidates int `json:"max_candidates"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled turns the in-memory response cache on.
	// Default: true
	Enabled bool `json:"enabled"`

	// TTL is how long a cached response stays valid.
	// Default: 5m
	TTL time.Duration `json:"ttl"`

	// MaxEntries caps the number of cached responses. When the cache is
	// full, expired entries are evicted before inserting.
	// Default: 1024
	MaxEntries int `json:"max_entries"`
}

// RerankConfig contains diversity reranking parameters.
type RerankConfig struct {
	// Enabled turns reranking on. When disabled, registered rerankers
	// are skipped and the ranker's order is returned unchanged.
	// Default: false
	Enabled bool `json:"enabled"`

	// Lambda is the relevance-diversity tradeoff for MMR, in [0, 1].
	// 1.0 is pure relevance, 0.0 is pure diversity.
	// Default: 0.7
	Lambda float64 `json:"lambda"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Metric: "cosine",
		Limits: LimitsConfig{
			DefaultK:      3,
			MaxK:          50,
			MaxCandidates: 0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
		Rerank: RerankConfig{
			Enabled: false,
			Lambda:  0.7,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Metric == "" {
		return fmt.Errorf("metric must not be empty")
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be at least 1, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be at least default_k (%d), got %d", c.Limits.DefaultK, c.Limits.MaxK)
	}
	if c.Limits.MaxCandidates < 0 {
		return fmt.Errorf("limits.max_candidates must be non-negative, got %d", c.Limits.MaxCandidates)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be at least 1, got %d", c.Cache.MaxEntries)
		}
	}
	if c.Rerank.Lambda < 0 || c.Rerank.Lambda > 1 {
		return fmt.Errorf("rerank.lambda must be in [0, 1], got %v", c.Rerank.Lambda)
	}
	return nil
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
