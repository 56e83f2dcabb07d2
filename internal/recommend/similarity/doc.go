// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package similarity implements the pluggable similarity metrics used to
// score candidate items against a user's preference vector.
//
// Every metric is a pure function of its two inputs: no side effects,
// deterministic, and safe to call concurrently from any number of callers
// without synchronization. All metrics fail with a dimension error when
// the two vectors differ in length; vectors are never truncated or padded
// to fit.
//
// # Available Metrics
//
// Cosine (default):
//
//	sim(a, b) = (a . b) / (|a| * |b|)
//
// Measures directional alignment, ignoring magnitude. Results are bounded
// to [-1, 1]. If either vector's norm is zero, the similarity is defined
// as 0 -- not NaN and not an error. This gives uninitialized or unmatched
// vectors the lowest possible influence instead of poisoning the pipeline
// with a division by zero.
//
// Dot:
//
//	sim(a, b) = a . b
//
// Unbounded in general; equivalent to cosine for L2-normalized inputs.
// Useful when vector magnitude carries meaning.
//
// Euclidean:
//
//	sim(a, b) = 1 / (1 + ||a - b||)
//
// A distance-derived similarity bounded to (0, 1], 1 for identical
// vectors.
//
// # Selection
//
// Metrics are selected by name through Provider, typically from
// configuration:
//
//	fn, err := similarity.Provider(cfg.Metric)
//	engine.SetMetric(cfg.Metric, fn)
//
// All metric functions satisfy recommend.MetricFunc, so alternate metrics
// can be substituted without changing callers.
package similarity
