// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package vectorstore

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/recommend"
)

// Store is an in-memory vector store with a fixed dimensionality.
// Items and users live in separate namespaces. All methods are safe for
// concurrent use.
type Store struct {
	dim    int
	logger zerolog.Logger

	mu        sync.RWMutex
	items     map[int]recommend.Item
	itemOrder []int
	users     map[int]recommend.User
	userOrder []int
}

// New creates an empty store for vectors of the given dimensionality.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(dim int, logger zerolog.Logger) (*Store, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension must be at least 1, got %d", recommend.ErrInvalidArgument, dim)
	}

	return &Store{
		dim:    dim,
		logger: logger.With().Str("component", "vectorstore").Logger(),
		items:  make(map[int]recommend.Item),
		users:  make(map[int]recommend.User),
	}, nil
}

// Dimension returns the store's fixed vector dimensionality.
func (s *Store) Dimension() int {
	return s.dim
}

// Item returns the item with the given identifier.
// The second return value reports whether the item exists.
func (s *Store) Item(id int) (recommend.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return recommend.Item{}, false
	}
	item.Vector = item.Vector.Clone()
	return item, true
}

// User implements recommend.UserSource.
func (s *Store) User(id int) (recommend.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return recommend.User{}, false
	}
	user.Vector = user.Vector.Clone()
	return user, true
}

// Items implements recommend.CatalogSource. It returns all items in
// insertion order; the result shares no memory with the store.
func (s *Store) Items() []recommend.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.Item, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		item := s.items[id]
		item.Vector = item.Vector.Clone()
		out = append(out, item)
	}
	return out
}

// ItemsByID returns the subset of items matching the given identifiers.
// Unknown identifiers are skipped; the result follows the store's
// insertion order, not the request order.
func (s *Store) ItemsByID(ids []int) []recommend.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requested := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}

	out := make([]recommend.Item, 0, len(requested))
	for _, id := range s.itemOrder {
		if _, ok := requested[id]; !ok {
			continue
		}
		item := s.items[id]
		item.Vector = item.Vector.Clone()
		out = append(out, item)
	}
	return out
}

// Users returns all users in insertion order; the result shares no
// memory with the store.
func (s *Store) Users() []recommend.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		user := s.users[id]
		user.Vector = user.Vector.Clone()
		out = append(out, user)
	}
	return out
}

// UpsertItem inserts or replaces an item. The vector is validated
// before any state changes; a failed upsert leaves the store untouched.
// Upserting an existing identifier keeps its enumeration position.
func (s *Store) UpsertItem(item recommend.Item) error {
	if err := item.Vector.Validate(s.dim); err != nil {
		return fmt.Errorf("item %d: %w", item.ID, err)
	}

	item.Vector = item.Vector.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

// UpsertUser inserts or replaces a user. Validation and ordering rules
// match UpsertItem.
func (s *Store) UpsertUser(user recommend.User) error {
	if err := user.Vector.Validate(s.dim); err != nil {
		return fmt.Errorf("user %d: %w", user.ID, err)
	}

	user.Vector = user.Vector.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		s.userOrder = append(s.userOrder, user.ID)
	}
	s.users[user.ID] = user
	return nil
}

// DeleteItem removes an item. Deleting an absent identifier is a no-op.
// Returns whether an item was removed.
func (s *Store) DeleteItem(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}

	delete(s.items, id)
	s.itemOrder = removeID(s.itemOrder, id)
	return true
}

// DeleteUser removes a user. Deleting an absent identifier is a no-op.
// Returns whether a user was removed.
func (s *Store) DeleteUser(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false
	}

	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	return true
}

// LoadCatalog bulk-upserts items. Every vector is validated before any
// item is applied, so a single bad entry rejects the whole batch and
// leaves the store unchanged.
func (s *Store) LoadCatalog(items []recommend.Item) error {
	for i := range items {
		if err := items[i].Vector.Validate(s.dim); err != nil {
			return fmt.Errorf("item %d: %w", items[i].ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range items {
		item := items[i]
		item.Vector = item.Vector.Clone()
		if _, exists := s.items[item.ID]; !exists {
			s.itemOrder = append(s.itemOrder, item.ID)
		}
		s.items[item.ID] = item
	}

	s.logger.Debug().
		Int("loaded", len(items)).
		Int("total", len(s.itemOrder)).
		Msg("catalog loaded")
	return nil
}

// LoadUsers bulk-upserts users with the same all-or-nothing validation
// as LoadCatalog.
func (s *Store) LoadUsers(users []recommend.User) error {
	for i := range users {
		if err := users[i].Vector.Validate(s.dim); err != nil {
			return fmt.Errorf("user %d: %w", users[i].ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range users {
		user := users[i]
		user.Vector = user.Vector.Clone()
		if _, exists := s.users[user.ID]; !exists {
			s.userOrder = append(s.userOrder, user.ID)
		}
		s.users[user.ID] = user
	}

	s.logger.Debug().
		Int("loaded", len(users)).
		Int("total", len(s.userOrder)).
		Msg("users loaded")
	return nil
}

// ItemCount returns the number of stored items.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.itemOrder)
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.userOrder)
}

// removeID removes the first occurrence of id, preserving order.
func removeID(order []int, id int) []int {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// Ensure interface compliance.
var _ recommend.DataProvider = (*Store)(nil)
