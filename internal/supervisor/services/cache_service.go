// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/metrics"
)

// ResponseCache defines the cache surface the maintenance service needs.
// This keeps the service decoupled from the recommendation engine itself.
type ResponseCache interface {
	// PruneExpired removes expired entries and returns how many went.
	PruneExpired() int

	// CacheSize reports the number of entries currently held.
	CacheSize() int
}

// CacheMaintenanceConfig holds configuration for the cache maintenance
// service.
type CacheMaintenanceConfig struct {
	// SweepInterval is how often expired entries are pruned.
	SweepInterval time.Duration

	// SweepOnStartup triggers a prune as soon as the service starts.
	SweepOnStartup bool
}

// CacheMaintenanceService periodically evicts expired response cache
// entries.
//
// The engine's cache is lazy: expired entries are only removed when their
// key is looked up again or the cache fills. A user whose recommendations
// were cached once and never requested again would otherwise pin a stale
// entry until capacity eviction. The sweep keeps the entry count and the
// cache size gauge honest between requests.
type CacheMaintenanceService struct {
	cache  ResponseCache
	config CacheMaintenanceConfig
	logger zerolog.Logger
	name   string
}

// NewCacheMaintenanceService creates a new cache maintenance service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheMaintenanceService(cache ResponseCache, cfg CacheMaintenanceConfig, logger zerolog.Logger) *CacheMaintenanceService {
	return &CacheMaintenanceService{
		cache:  cache,
		config: cfg,
		logger: logger.With().Str("service", "cache-maintenance").Logger(),
		name:   "cache-maintenance",
	}
}

// Serve implements the suture.Service interface.
// It runs the sweep loop until the context is canceled.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	if s.config.SweepInterval <= 0 {
		s.config.SweepInterval = 5 * time.Minute
	}

	s.logger.Info().
		Dur("sweep_interval", s.config.SweepInterval).
		Bool("sweep_on_startup", s.config.SweepOnStartup).
		Msg("cache maintenance service starting")

	if s.config.SweepOnStartup {
		s.sweep()
	}

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache maintenance service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep prunes expired entries and reports the remaining size.
func (s *CacheMaintenanceService) sweep() {
	evicted := s.cache.PruneExpired()
	remaining := s.cache.CacheSize()

	metrics.UpdateCacheSize("response", int64(remaining))

	if evicted > 0 {
		s.logger.Debug().
			Int("evicted", evicted).
			Int("remaining", remaining).
			Msg("expired cache entries pruned")
	}
}

// String returns the service name for logging.
func (s *CacheMaintenanceService) String() string {
	return s.name
}
