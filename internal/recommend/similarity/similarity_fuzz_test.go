// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/affinitas/internal/recommend"
)

// vectorFromBytes maps each byte to a small finite component so the
// kernels are fuzzed over well-formed input. Non-finite components are
// rejected upstream by vector validation, not by the kernels.
func vectorFromBytes(data []byte) []float64 {
	v := make([]float64, len(data))
	for i, b := range data {
		v[i] = float64(int8(b))
	}
	return v
}

// FuzzCosine verifies that the cosine kernel never panics and that
// every successful result respects the documented contract: a score
// in [-1, 1], never NaN, and symmetric in its arguments.
func FuzzCosine(f *testing.F) {
	// Seed corpus: matched and mismatched lengths, zeros, extremes
	f.Add([]byte{5, 4, 0, 0, 5}, []byte{1, 0, 0, 0, 1})
	f.Add([]byte{0, 0, 0}, []byte{1, 2, 3})
	f.Add([]byte{}, []byte{})
	f.Add([]byte{255, 128, 127}, []byte{1, 255, 128})
	f.Add([]byte{1, 2, 3}, []byte{1, 2})
	f.Add([]byte{128}, []byte{128})

	f.Fuzz(func(t *testing.T, aBytes, bBytes []byte) {
		a := vectorFromBytes(aBytes)
		b := vectorFromBytes(bBytes)

		got, err := Cosine(a, b)

		if len(a) != len(b) {
			if !errors.Is(err, recommend.ErrDimensionMismatch) {
				t.Fatalf("mismatched lengths %d/%d: expected ErrDimensionMismatch, got %v", len(a), len(b), err)
			}
			return
		}

		if err != nil {
			t.Fatalf("Cosine() error = %v for matched lengths", err)
		}
		if math.IsNaN(got) {
			t.Fatalf("Cosine() = NaN for a=%v b=%v", a, b)
		}
		if got < -1 || got > 1 {
			t.Fatalf("Cosine() = %v out of [-1, 1] for a=%v b=%v", got, a, b)
		}

		reversed, err := Cosine(b, a)
		if err != nil {
			t.Fatalf("Cosine() reversed error = %v", err)
		}
		if got != reversed {
			t.Fatalf("Cosine() not symmetric: %v vs %v", got, reversed)
		}
	})
}
