// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/metrics"
	"github.com/tomtom215/affinitas/internal/recommend"
)

// ListUsers handles GET /api/v1/users. Cached the same way as ListItems.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if cached, ok := h.readCache.Get(usersListKey); ok {
		metrics.RecordCacheHit("catalog")
		rw.Success(cached)
		return
	}
	metrics.RecordCacheMiss("catalog")

	users := h.store.Users()
	payload := map[string]interface{}{
		"count": len(users),
		"users": users,
	}
	h.readCache.Set(usersListKey, payload)
	rw.Success(payload)
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("Invalid user ID")
		return
	}

	user, ok := h.store.User(userID)
	if !ok {
		rw.UserNotFound("User " + strconv.Itoa(userID) + " not found")
		return
	}

	rw.Success(user)
}

// UpsertUser handles POST /api/v1/users. A changed preference vector
// invalidates every cached response, not just the user's own entries.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	user := req.User()
	_, existed := h.store.User(user.ID)

	if err := h.store.UpsertUser(user); err != nil {
		h.respondStoreError(rw, events.NamespaceUsers, events.KindUpsert, err)
		return
	}

	h.recordStoreMutation(events.NamespaceUsers, events.KindUpsert)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewUserUpsertEvent(user, events.SourceAPI))

	if existed {
		rw.Success(user)
		return
	}
	rw.Created(user)
}

// DeleteUser handles DELETE /api/v1/users/{userID}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("Invalid user ID")
		return
	}

	if !h.store.DeleteUser(userID) {
		rw.UserNotFound("User " + strconv.Itoa(userID) + " not found")
		return
	}

	h.recordStoreMutation(events.NamespaceUsers, events.KindDelete)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewUserDeleteEvent(userID, events.SourceAPI))

	rw.NoContent()
}

// LoadUsers handles PUT /api/v1/users. Bulk-upserts user preference
// vectors with the same all-or-nothing validation as LoadItems.
func (h *Handler) LoadUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoadUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	users := make([]recommend.User, len(req.Users))
	for i := range req.Users {
		users[i] = req.Users[i].User()
	}

	if err := h.store.LoadUsers(users); err != nil {
		h.respondStoreError(rw, events.NamespaceUsers, events.KindLoad, err)
		return
	}

	h.recordStoreMutation(events.NamespaceUsers, events.KindLoad)
	h.engine.InvalidateCache()
	h.InvalidateReadCache()
	h.publishCatalogEvent(r.Context(), events.NewLoadEvent(events.NamespaceUsers, len(users), events.SourceAPI))

	rw.Success(map[string]interface{}{
		"loaded": len(users),
	})
}
