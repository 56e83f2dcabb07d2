// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package ranking

import (
	"github.com/tomtom215/affinitas/internal/recommend"
)

// scoredEntry pairs a scored candidate with its original enumeration
// index, which is the tie-break key.
//
// Value-based storage, no pointer indirection.
type scoredEntry struct {
	item  recommend.ScoredItem
	index int
}

// worse reports whether a ranks strictly below b in the final ordering:
// lower score first, and between equal scores the later enumeration
// index. Indices are unique, so this is a total order.
func worse(a, b scoredEntry) bool {
	if a.item.Score != b.item.Score {
		return a.item.Score < b.item.Score
	}
	return a.index > b.index
}

// boundedHeap is a fixed-capacity min-heap whose root is always the
// worst retained entry. Pushing into a full heap either displaces the
// root or discards the new entry.
//
// The heap is call-local and single-goroutine; no locking.
type boundedHeap struct {
	entries  []scoredEntry
	capacity int
}

func newBoundedHeap(capacity int) *boundedHeap {
	return &boundedHeap{
		entries:  make([]scoredEntry, 0, capacity),
		capacity: capacity,
	}
}

func (h *boundedHeap) len() int {
	return len(h.entries)
}

// push inserts an entry, displacing the current worst when full.
func (h *boundedHeap) push(e scoredEntry) {
	if len(h.entries) < h.capacity {
		h.entries = append(h.entries, e)
		h.bubbleUp(len(h.entries) - 1)
		return
	}

	if worse(e, h.entries[0]) {
		return
	}

	h.entries[0] = e
	h.bubbleDown(0)
}

// extract empties the heap and returns its contents in final rank
// order: descending score, ties by ascending enumeration index.
func (h *boundedHeap) extract() []recommend.ScoredItem {
	out := make([]recommend.ScoredItem, len(h.entries))
	for i := len(h.entries) - 1; i >= 0; i-- {
		out[i] = h.pop().item
	}
	return out
}

// pop removes and returns the worst entry. The heap must be non-empty.
func (h *boundedHeap) pop() scoredEntry {
	root := h.entries[0]
	n := len(h.entries) - 1
	h.entries[0] = h.entries[n]
	h.entries = h.entries[:n]
	if n > 0 {
		h.bubbleDown(0)
	}
	return root
}

// bubbleUp moves the element at index i up to its correct position.
func (h *boundedHeap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(h.entries[i], h.entries[parent]) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

// bubbleDown moves the element at index i down to its correct position.
func (h *boundedHeap) bubbleDown(i int) {
	n := len(h.entries)
	for {
		worst := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && worse(h.entries[left], h.entries[worst]) {
			worst = left
		}
		if right < n && worse(h.entries[right], h.entries[worst]) {
			worst = right
		}

		if worst == i {
			break
		}

		h.swap(i, worst)
		i = worst
	}
}

// swap swaps elements at indices i and j.
func (h *boundedHeap) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}
