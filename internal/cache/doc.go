// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

/*
Package cache provides thread-safe in-memory caching with TTL support.

This package implements the caching layer for API read endpoints and the
deduplication window for catalog events, reducing repeated vector-store
scans and keeping event consumers idempotent.

# Overview

The package ships two structures:

  - Cache: a TTL key-value cache for API responses and catalog summaries.
    Entries expire lazily on Get and eagerly via a background cleanup loop.
  - LRUCache: a bounded least-recently-used cache with TTL, used to detect
    duplicate catalog events by message ID within a sliding window.

Both are safe for concurrent access (sync.RWMutex) and track hit/miss
statistics for monitoring.

# Use Cases

Primary use cases:
  - Catalog listings (item summaries, 5-minute TTL)
  - Aggregate catalog statistics (counts, dimension, 5-minute TTL)
  - Catalog event deduplication (10k entry window, 5-minute TTL)

Recommendation responses are NOT cached here; the recommendation engine
carries its own response cache keyed by user, K, and metric so that it can
invalidate precisely when the catalog changes.

# Usage Example

Basic caching:

	import "github.com/tomtom215/affinitas/internal/cache"

	// Create cache with 5-minute default TTL
	c := cache.New(5 * time.Minute)

	// Store value
	c.Set("catalog:stats", stats)

	// Retrieve value
	if value, ok := c.Get("catalog:stats"); ok {
	    stats := value.(CatalogStats)
	    // Use cached stats
	}

	// Delete specific key
	c.Delete("catalog:stats")

	// Clear entire cache
	c.Clear()

API handler caching pattern:

	func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	    cacheKey := cache.GenerateKey("items:list", filter)

	    // Check cache
	    if cached, ok := h.cache.Get(cacheKey); ok {
	        h.writeData(w, r, http.StatusOK, cached)
	        return
	    }

	    // Cache miss - read from the vector store
	    items := h.store.Items()
	    h.cache.Set(cacheKey, items)
	    h.writeData(w, r, http.StatusOK, items)
	}

Event deduplication pattern:

	dedup := cache.NewLRUCache(10000, 5*time.Minute)

	if dedup.IsDuplicate(msg.UUID) {
	    return nil // Already processed, ack and move on
	}
	// First delivery, process the event

# Cache Invalidation

The TTL cache supports two invalidation strategies:

1. TTL-based expiration (automatic):
  - Entries expire after the configured TTL
  - Checked lazily during Get operations
  - Background cleanup removes expired entries every 5 minutes

2. Manual invalidation (on catalog changes):
  - Clear() removes all cache entries
  - Delete(key) removes a specific entry
  - The catalog event consumer clears the cache whenever an item or
    user vector is upserted or deleted

Example: clear cached listings after a catalog event

	func (c *Consumer) handleCatalogEvent(msg *message.Message) error {
	    // ... apply the event ...
	    c.apiCache.Clear()
	    return nil
	}

# Cache Key Conventions

Use consistent key prefixes for organization:

	catalog:stats                 // Aggregate catalog statistics
	items:list:<hash>             // Filtered item listings
	users:list:<hash>             // User listings

GenerateKey builds the hashed form from a method name and a parameter
struct, so handlers never concatenate query values by hand.

# Thread Safety

All methods on both structures are thread-safe:

  - Cache.Get: read lock, upgrading to a write lock only to drop an
    expired entry
  - Cache.Set / Delete / Clear: write lock
  - LRUCache operations: write lock (Get reorders the recency list)

Multiple goroutines can safely share one instance.

# Limitations

The TTL cache has intentional limitations for simplicity:

  - No maximum size limit (bounded in practice by catalog size and TTL)
  - No persistence (in-memory only)
  - No distributed mode (single instance)

The catalog fits comfortably in memory and every entry is rebuildable
from the vector store, so these limits are acceptable. The LRUCache is
the bounded structure; use it where an unbounded key space (event IDs)
must not grow without limit.

# See Also

  - internal/api: handlers that cache catalog reads
  - internal/events: deduplicator built on LRUCache
  - internal/recommend: the engine's own response cache
*/
package cache
