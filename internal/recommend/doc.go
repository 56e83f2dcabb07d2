// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package recommend implements the similarity-ranking recommendation engine.
//
// # Architecture
//
// The engine orchestrates a read-only pipeline over a fixed-dimensionality
// vector space:
//
//   - Resolve the user's preference vector from a UserSource
//   - Fetch candidate items from a CatalogSource in stable enumeration order
//   - Score each candidate against the preference vector with a pluggable
//     similarity metric (cosine by default)
//   - Select the top-K candidates with a bounded ranker (no full sort)
//   - Return the ordered results, highest similarity first
//
// # Design Principles
//
//   - Deterministic: equal scores are broken by catalog enumeration order,
//     never by map iteration or identifier value
//   - Read-only: a recommendation request never mutates store state
//   - Recoverable: every failure is an error value (user not found,
//     dimension mismatch, invalid argument), never a process exit
//   - Observable: requests are logged with structured fields and counted
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//
//	engine.SetDataProvider(store)
//	engine.SetMetric("cosine", similarity.Cosine)
//	engine.SetRanker(ranking.New(ranking.DefaultConfig()))
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    UserID: userID,
//	    K:      3,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. The request path takes no locks
// beyond the response cache's read lock; providers are required to be safe
// under concurrent readers.
//
// This package has no dependencies on other internal packages. The
// DataProvider interface allows integration with the vectorstore package
// without creating circular imports; the similarity and ranking
// subpackages import this one and are wired in at startup.
package recommend
