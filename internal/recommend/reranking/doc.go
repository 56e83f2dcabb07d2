// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package reranking implements post-processing algorithms for recommendation diversity.
//
// This package provides reranking algorithms that modify recommendation lists
// to achieve objectives beyond pure relevance. Rerankers operate on
// already-scored recommendations and reorder them to balance multiple
// objectives.
//
// # Overview
//
// Reranking is applied after top-K selection:
//
//	Metric -> Ranker (relevance) -> Rerankers (diversity) -> Final Ranking
//
// # Available Rerankers
//
// Maximal Marginal Relevance (MMR):
//   - Balances relevance with diversity
//   - Penalizes items similar to already-selected items
//   - Lambda parameter controls relevance/diversity tradeoff
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
//	}
//
// # Usage Example
//
// Applying MMR reranking over cosine item similarity:
//
//	top, err := selector.TopK(ctx, query, candidates, 20, similarity.Cosine)
//
//	// Apply MMR with 0.7 relevance / 0.3 diversity balance
//	mmr := reranking.NewMMR(0.7, similarity.Cosine)
//	diversified := mmr.Rerank(ctx, top, 10)
//
// # MMR Algorithm
//
// Maximal Marginal Relevance iteratively selects items that are both
// relevant and dissimilar to already-selected items:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max_similarity(i, selected)]
//
// Where:
//   - lambda: Balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - score(i): Original relevance score for item i
//   - max_similarity: Maximum similarity to any selected item
//
// Lambda Guidelines:
//   - 0.9-1.0: Mostly relevance, minimal diversity (safe default)
//   - 0.7-0.9: Balanced (recommended for most use cases)
//   - 0.5-0.7: Strong diversity push
//   - 0.0-0.5: Diversity-focused (may sacrifice relevance)
//
// # Similarity Metrics
//
// Item-to-item similarity is computed with an injected metric over the
// items' feature vectors, usually the same metric family used for
// scoring. Items with identical vectors have cosine similarity 1.0,
// orthogonal vectors 0.0.
//
// # Performance
//
// MMR Complexity:
//   - Time: O(k * n^2) where k = output size, n = input size
//   - Space: O(n^2) for similarity matrix
//
// The input is the already-selected top-K list rather than the full
// catalog, so n stays small in practice.
//
// # Thread Safety
//
// All rerankers are stateless and safe for concurrent use. The same
// reranker instance can process multiple requests simultaneously.
//
// # See Also
//
//   - internal/recommend/similarity: Vector similarity metrics
//   - internal/recommend/ranking: Top-K selection
//   - internal/recommend: Engine that orchestrates reranking
//   - Carbonell & Goldstein (1998): "The Use of MMR" SIGIR paper
package reranking
