// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package vectorstore

import (
	"fmt"

	"github.com/tomtom215/affinitas/internal/recommend"
)

// DemoDimension is the dimensionality of the bundled demo dataset.
const DemoDimension = 5

// DemoItems returns the five-title demo catalog.
func DemoItems() []recommend.Item {
	return []recommend.Item{
		{ID: 1, Title: "Action Adventure", Vector: recommend.Vector{1, 0, 0, 0, 1}},
		{ID: 2, Title: "Sci-Fi Epic", Vector: recommend.Vector{0, 1, 0, 0, 1}},
		{ID: 3, Title: "Comedy Special", Vector: recommend.Vector{0, 0, 1, 1, 0}},
		{ID: 4, Title: "Drama Series", Vector: recommend.Vector{0, 0, 1, 0, 0}},
		{ID: 5, Title: "Fantasy Tale", Vector: recommend.Vector{1, 0, 0, 0, 1}},
	}
}

// DemoUsers returns the demo preference profiles.
func DemoUsers() []recommend.User {
	return []recommend.User{
		{ID: 1, Vector: recommend.Vector{5, 4, 0, 0, 5}},
		{ID: 2, Vector: recommend.Vector{0, 0, 5, 4, 3}},
	}
}

// SeedDemoData loads the demo catalog and users. Intended for demo and
// development setups; enabled with the seed.demo_data config flag.
// The store dimension must be DemoDimension.
func (s *Store) SeedDemoData() error {
	if s.dim != DemoDimension {
		return fmt.Errorf("%w: demo data is %d-dimensional, store is %d-dimensional",
			recommend.ErrDimensionMismatch, DemoDimension, s.dim)
	}

	if err := s.LoadCatalog(DemoItems()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := s.LoadUsers(DemoUsers()); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	s.logger.Info().
		Int("items", s.ItemCount()).
		Int("users", s.UserCount()).
		Msg("demo data seeded")
	return nil
}
