// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/affinitas/internal/cache"
	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/logging"
	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/recommend"
	"github.com/tomtom215/affinitas/internal/validation"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// requestTimeout bounds handler work per request.
const requestTimeout = 10 * time.Second

// readCacheTTL bounds how long list responses are served from cache.
// Mutations clear the cache immediately; the TTL only covers mutations
// applied outside this process, such as events consumed from NATS.
const readCacheTTL = 30 * time.Second

// Cache keys for the list endpoints.
const (
	itemsListKey = "items:list"
	usersListKey = "users:list"
)

// Handler serves the recommendation and catalog endpoints.
type Handler struct {
	engine    *recommend.Engine
	store     *vectorstore.Store
	publisher *events.Publisher
	readCache *cache.Cache
	startTime time.Time
}

// NewHandler creates the API handler around the engine and its store.
func NewHandler(engine *recommend.Engine, store *vectorstore.Store) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		readCache: cache.New(readCacheTTL),
		startTime: time.Now(),
	}
}

// InvalidateReadCache drops all cached list responses. Handlers call this
// after every store mutation; wire it as a consumer invalidator so events
// applied from the bus also clear it.
func (h *Handler) InvalidateReadCache() {
	h.readCache.Clear()
}

// SetPublisher sets the optional catalog event publisher. When set,
// successful catalog mutations publish events after the store is updated.
// Passing nil disables event publishing.
//
// Thread safety: call once during startup, before serving.
func (h *Handler) SetPublisher(publisher *events.Publisher) {
	h.publisher = publisher
}

// publishCatalogEvent publishes a catalog mutation event if a publisher is
// configured. Errors are logged but do not fail the mutation: the store is
// already updated and the local cache invalidated by the time this runs.
func (h *Handler) publishCatalogEvent(ctx context.Context, event *events.CatalogEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", event.Topic()).Msg("Failed to publish catalog event")
	}
}

// recordStoreMutation updates store metrics after a successful mutation.
// The consumer records these for event-driven applies; this covers the
// direct API write path.
func (h *Handler) recordStoreMutation(namespace, kind string) {
	metrics.RecordStoreOperation(namespace, kind)
	metrics.UpdateStoreSizes(h.store.ItemCount(), h.store.UserCount())
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or an APIError carrying field details.
func validateRequest(v interface{}) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
