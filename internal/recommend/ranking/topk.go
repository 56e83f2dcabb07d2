// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package ranking

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/affinitas/internal/recommend"
)

const (
	// defaultMinParallel is the candidate count below which scoring
	// stays on the calling goroutine. Fan-out overhead dominates for
	// small catalogs.
	defaultMinParallel = 4096

	// maxWorkers caps fan-out regardless of GOMAXPROCS.
	maxWorkers = 16

	// cancelCheckInterval is how many candidates are scored between
	// context cancellation checks.
	cancelCheckInterval = 1024
)

// Config controls the selector's parallel scoring path.
type Config struct {
	// MinParallel is the minimum candidate count before scoring fans
	// out across workers. Default: 4096.
	MinParallel int `json:"min_parallel"`

	// Workers is the number of scoring goroutines for large candidate
	// sets. Default: GOMAXPROCS, capped at 16.
	Workers int `json:"workers"`
}

// DefaultConfig returns the default selector configuration.
func DefaultConfig() Config {
	workers := runtime.GOMAXPROCS(0)
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return Config{
		MinParallel: defaultMinParallel,
		Workers:     workers,
	}
}

// Selector selects the top-K candidates with a bounded min-heap.
// It is stateless after construction and safe for concurrent use.
type Selector struct {
	config Config
}

// New creates a selector. Zero or negative config fields fall back to
// defaults.
func New(cfg Config) *Selector {
	def := DefaultConfig()
	if cfg.MinParallel <= 0 {
		cfg.MinParallel = def.MinParallel
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Selector{config: cfg}
}

// Name returns the ranker identifier.
func (s *Selector) Name() string {
	return "heap"
}

// TopK scores every candidate against the query and returns at most k
// results in descending score order. Candidates with equal scores keep
// their original order. k <= 0 is rejected with ErrInvalidArgument; an
// empty candidate slice returns an empty result.
func (s *Selector) TopK(ctx context.Context, query recommend.Vector, candidates []recommend.Item, k int, metric recommend.MetricFunc) ([]recommend.ScoredItem, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", recommend.ErrInvalidArgument, k)
	}
	if metric == nil {
		return nil, fmt.Errorf("%w: nil metric", recommend.ErrInvalidArgument)
	}
	if len(candidates) == 0 {
		return []recommend.ScoredItem{}, nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	if len(candidates) >= s.config.MinParallel && s.config.Workers > 1 {
		return s.topKParallel(ctx, query, candidates, k, metric)
	}
	return s.topKSequential(ctx, query, candidates, k, metric)
}

func (s *Selector) topKSequential(ctx context.Context, query recommend.Vector, candidates []recommend.Item, k int, metric recommend.MetricFunc) ([]recommend.ScoredItem, error) {
	h := newBoundedHeap(k)

	for i := range candidates {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		score, err := metric(query, candidates[i].Vector)
		if err != nil {
			return nil, fmt.Errorf("score item %d: %w", candidates[i].ID, err)
		}

		h.push(scoredEntry{
			item:  recommend.ScoredItem{Item: candidates[i], Score: score},
			index: i,
		})
	}

	return h.extract(), nil
}

// topKParallel chunks the candidate set across workers. Each worker
// selects its chunk's winners into a private heap; the partial heaps
// are merged on the calling goroutine. Entries carry their global
// enumeration index, so the merged ordering matches the sequential
// path exactly.
func (s *Selector) topKParallel(ctx context.Context, query recommend.Vector, candidates []recommend.Item, k int, metric recommend.MetricFunc) ([]recommend.ScoredItem, error) {
	workers := s.config.Workers
	chunk := (len(candidates) + workers - 1) / workers

	partial := make([]*boundedHeap, workers)
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(candidates) {
			break
		}
		end := start + chunk
		if end > len(candidates) {
			end = len(candidates)
		}

		g.Go(func() error {
			h := newBoundedHeap(k)
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				score, err := metric(query, candidates[i].Vector)
				if err != nil {
					return fmt.Errorf("score item %d: %w", candidates[i].ID, err)
				}

				h.push(scoredEntry{
					item:  recommend.ScoredItem{Item: candidates[i], Score: score},
					index: i,
				})
			}
			partial[w] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newBoundedHeap(k)
	for _, h := range partial {
		if h == nil {
			continue
		}
		for _, e := range h.entries {
			merged.push(e)
		}
	}

	return merged.extract(), nil
}

// Ensure Selector implements the interface.
var _ recommend.Ranker = (*Selector)(nil)
