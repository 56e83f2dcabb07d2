// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package ranking implements top-K candidate selection for the
// recommendation engine.
//
// # Algorithm
//
// The Selector scores every candidate against the query vector and
// keeps the K best in a fixed-capacity min-heap. The heap root is
// always the worst retained entry, so each new candidate either
// displaces the root or is discarded in O(log k). Selection over N
// candidates is O(N log k) and never sorts the full candidate set,
// which matters when the catalog is much larger than K.
//
// # Tie-Breaking
//
// Results are ordered by descending score. Candidates with equal
// scores keep their original enumeration order, so repeated calls over
// the same catalog always produce the same list. The heap encodes this
// by treating a later enumeration index as worse than an earlier one
// at equal score.
//
// # Concurrency
//
// Small candidate sets are scored on the calling goroutine. Sets at or
// above Config.MinParallel fan out across Config.Workers goroutines,
// each selecting its chunk's local winners into a private heap; the
// partial results are then merged. Global enumeration indices are
// preserved through the merge, so the parallel path returns exactly
// the same ordering as the sequential path.
//
// # Usage
//
//	selector := ranking.New(ranking.DefaultConfig())
//	top, err := selector.TopK(ctx, query, candidates, 3, similarity.Cosine)
//
// The Selector is stateless after construction and safe for concurrent
// use.
package ranking
