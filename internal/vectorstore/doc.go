// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package vectorstore provides the in-memory feature vector store.
//
// A Store holds catalog items and user preference vectors in two
// separate namespaces sharing one fixed dimensionality. Every vector is
// validated on ingest: a length that disagrees with the store dimension
// or a non-finite component rejects the write before any state changes.
//
// # Enumeration Order
//
// Items and Users enumerate in insertion order. First insertion fixes
// an entry's position; upserting an existing identifier updates the
// value in place without moving it. Ranking relies on this order for
// deterministic tie-breaking, so it must survive any store mutation
// short of delete.
//
// # Concurrency
//
// Reads take a shared lock and writes an exclusive one, so concurrent
// readers never observe a torn vector. Vectors are copied on the way in
// and on the way out; callers can mutate what they pass or receive
// without affecting the store.
//
// # Engine Integration
//
// Store implements recommend.DataProvider, which is how the engine
// consumes it without an import cycle:
//
//	store, err := vectorstore.New(5, logger)
//	engine.SetDataProvider(store)
//
// Each Store instance is self-contained; tests create as many as they
// need.
package vectorstore
