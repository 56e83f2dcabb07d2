// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"context"
	"time"

	"github.com/tomtom215/affinitas/internal/cache"
	"github.com/tomtom215/affinitas/internal/metrics"
)

// InMemoryDeduplicator implements middleware.ExpiringKeyRepository for
// router-level message deduplication (exact message UUID matching).
// Event-level deduplication on stable event IDs happens in the Consumer,
// which survives message re-serialization; at most one of the two layers
// sees any given duplicate.
//
// Uses LRUCache for O(1) operations with bounded memory.
type InMemoryDeduplicator struct {
	cache *cache.LRUCache
}

// NewInMemoryDeduplicator creates a deduplicator remembering keys for ttl.
// The cache is capped at 10000 entries.
func NewInMemoryDeduplicator(ttl time.Duration) *InMemoryDeduplicator {
	return &InMemoryDeduplicator{
		cache: cache.NewLRUCache(10000, ttl),
	}
}

// IsDuplicate reports whether the key was seen inside the window, recording
// it as a side effect. Check and record are one atomic step.
// Implements the middleware.ExpiringKeyRepository interface.
func (d *InMemoryDeduplicator) IsDuplicate(_ context.Context, key string) (bool, error) {
	if d.cache.IsDuplicate(key) {
		metrics.RecordEventDeduplicated()
		return true, nil
	}
	return false, nil
}

// Len returns the number of remembered keys.
func (d *InMemoryDeduplicator) Len() int {
	return d.cache.Len()
}
