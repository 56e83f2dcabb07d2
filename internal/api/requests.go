// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// HTTP request validation structs with go-playground/validator tags.
// These are validated by validateRequest before any store or engine call.
//
// Vector element values are not constrained here; finiteness and
// dimensionality are enforced by the store against the configured
// dimension. The tags bound only what the transport layer owns: presence,
// lengths, and parameter ranges.

package api

import "github.com/tomtom215/affinitas/internal/recommend"

// RecommendationsQuery represents the validated query parameters for
// GET /api/v1/recommendations/{userID}.
type RecommendationsQuery struct {
	K int `validate:"omitempty,min=1,max=10000"`
}

// UpsertItemRequest represents the request body for POST /api/v1/items.
type UpsertItemRequest struct {
	ID     int       `json:"id" validate:"min=0"`
	Title  string    `json:"title" validate:"required,max=512"`
	Vector []float64 `json:"vector" validate:"required,min=1,max=4096"`
}

// Item converts the request into the domain type.
func (r *UpsertItemRequest) Item() recommend.Item {
	return recommend.Item{ID: r.ID, Title: r.Title, Vector: r.Vector}
}

// UpsertUserRequest represents the request body for POST /api/v1/users.
type UpsertUserRequest struct {
	ID     int       `json:"id" validate:"min=0"`
	Vector []float64 `json:"vector" validate:"required,min=1,max=4096"`
}

// User converts the request into the domain type.
func (r *UpsertUserRequest) User() recommend.User {
	return recommend.User{ID: r.ID, Vector: r.Vector}
}

// LoadItemsRequest represents the request body for PUT /api/v1/items.
// The batch is validated as a whole; one bad vector rejects every item.
type LoadItemsRequest struct {
	Items []UpsertItemRequest `json:"items" validate:"required,min=1,max=100000,dive"`
}

// LoadUsersRequest represents the request body for PUT /api/v1/users.
type LoadUsersRequest struct {
	Users []UpsertUserRequest `json:"users" validate:"required,min=1,max=100000,dive"`
}
