// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package similarity

import (
	"fmt"
	"math"

	"github.com/tomtom215/affinitas/internal/recommend"
)

// Metric names accepted by Provider.
const (
	// MetricCosine is cosine similarity, the default.
	MetricCosine = "cosine"

	// MetricDot is the raw dot product.
	MetricDot = "dot"

	// MetricEuclidean is Euclidean-distance-derived similarity.
	MetricEuclidean = "euclidean"
)

// Provider resolves a metric name to its scoring function.
// Unknown names yield recommend.ErrInvalidArgument.
func Provider(name string) (recommend.MetricFunc, error) {
	switch name {
	case MetricCosine:
		return Cosine, nil
	case MetricDot:
		return Dot, nil
	case MetricEuclidean:
		return Euclidean, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", recommend.ErrInvalidArgument, name)
	}
}

// Cosine computes the cosine similarity of two equal-length vectors.
// The result is bounded to [-1, 1]. If either vector has zero norm the
// similarity is 0; a length mismatch yields a dimension error.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, recommend.NewDimensionError(len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	// sqrt(normA*normB) keeps sim(a,a) exactly 1 for integral vectors
	s := dot / math.Sqrt(normA*normB)

	// Clamp float drift so callers can rely on the documented bounds
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return s, nil
}

// Dot computes the dot product of two equal-length vectors. The result is
// unbounded in general; for L2-normalized inputs it equals cosine
// similarity.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, recommend.NewDimensionError(len(a), len(b))
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot, nil
}

// Euclidean computes a similarity derived from Euclidean distance:
// 1 / (1 + ||a-b||). The result is in (0, 1], with 1 for identical
// vectors.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, recommend.NewDimensionError(len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return 1 / (1 + math.Sqrt(sum)), nil
}
