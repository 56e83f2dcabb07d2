// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/recommend"
)

// ListItems handles GET /api/v1/items. Returns the full catalog in
// insertion order, vectors included. The response is cached because
// listing copies every vector under the store lock; any mutation
// clears the cache.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if cached, ok := h.readCache.Get(itemsListKey); ok {
		metrics.RecordCacheHit("catalog")
		rw.Success(cached)
		return
	}
	metrics.RecordCacheMiss("catalog")

	items := h.store.Items()
	payload := map[string]interface{}{
		"count": len(items),
		"items": items,
	}
	h.readCache.Set(itemsListKey, payload)
	rw.Success(payload)
}

// GetItem handles GET /api/v1/items/{itemID}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		rw.BadRequest("Invalid item ID")
		return
	}

	item, ok := h.store.Item(itemID)
	if !ok {
		rw.ItemNotFound("Item " + strconv.Itoa(itemID) + " not found")
		return
	}

	rw.Success(item)
}

// UpsertItem handles POST /api/v1/items. Inserts or replaces a single
// catalog item, invalidates the response cache, and publishes an upsert
// event. Responds 201 when the item is new, 200 when it replaces an
// existing one.
func (h *Handler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	item := req.Item()
	_, existed := h.store.Item(item.ID)

	if err := h.store.UpsertItem(item); err != nil {
		h.respondStoreError(rw, events.NamespaceItems, events.KindUpsert, err)
		return
	}

	h.recordStoreMutation(events.NamespaceItems, events.KindUpsert)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewItemUpsertEvent(item, events.SourceAPI))

	if existed {
		rw.Success(item)
		return
	}
	rw.Created(item)
}

// DeleteItem handles DELETE /api/v1/items/{itemID}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		rw.BadRequest("Invalid item ID")
		return
	}

	if !h.store.DeleteItem(itemID) {
		rw.ItemNotFound("Item " + strconv.Itoa(itemID) + " not found")
		return
	}

	h.recordStoreMutation(events.NamespaceItems, events.KindDelete)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewItemDeleteEvent(itemID, events.SourceAPI))

	rw.NoContent()
}

// LoadItems handles PUT /api/v1/items. Bulk-upserts the posted items;
// on any validation failure no item is applied and the previous catalog
// is kept.
func (h *Handler) LoadItems(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoadItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	items := make([]recommend.Item, len(req.Items))
	for i := range req.Items {
		items[i] = req.Items[i].Item()
	}

	if err := h.store.LoadCatalog(items); err != nil {
		h.respondStoreError(rw, events.NamespaceItems, events.KindLoad, err)
		return
	}

	h.recordStoreMutation(events.NamespaceItems, events.KindLoad)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewLoadEvent(events.NamespaceItems, len(items), events.SourceAPI))

	rw.Success(map[string]interface{}{
		"loaded": len(items),
	})
}

// respondStoreError maps store validation errors onto API error responses
// and records the rejected mutation.
func (h *Handler) respondStoreError(rw *ResponseWriter, namespace, kind string, err error) {
	switch {
	case errors.Is(err, recommend.ErrDimensionMismatch):
		metrics.RecordStoreOperationError(namespace, kind, "dimension_mismatch")
		rw.Error(http.StatusBadRequest, ErrCodeDimensionMismatch, err.Error())
	case errors.Is(err, recommend.ErrInvalidArgument):
		metrics.RecordStoreOperationError(namespace, kind, "invalid_vector")
		rw.BadRequest(err.Error())
	default:
		metrics.RecordStoreOperationError(namespace, kind, "internal")
		rw.InternalError("Failed to update store")
	}
}
