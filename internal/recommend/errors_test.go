// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package recommend

import (
	"errors"
	"testing"
)

func TestDimensionError(t *testing.T) {
	t.Parallel()

	err := NewDimensionError(5, 3)

	want := "vector dimension mismatch: want 5, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("errors.Is(err, ErrDimensionMismatch) = false")
	}

	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatal("errors.As failed to extract *DimensionError")
	}
	if dimErr.Want != 5 || dimErr.Got != 3 {
		t.Errorf("fields = want %d got %d, expected want 5 got 3", dimErr.Want, dimErr.Got)
	}
}

func TestErrNonFinite_MatchesInvalidArgument(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrNonFinite, ErrInvalidArgument) {
		t.Error("ErrNonFinite should unwrap to ErrInvalidArgument")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()

	if errors.Is(ErrUserNotFound, ErrDimensionMismatch) {
		t.Error("ErrUserNotFound must not match ErrDimensionMismatch")
	}
	if errors.Is(ErrUserNotFound, ErrInvalidArgument) {
		t.Error("ErrUserNotFound must not match ErrInvalidArgument")
	}
	if errors.Is(ErrDimensionMismatch, ErrInvalidArgument) {
		t.Error("ErrDimensionMismatch must not match ErrInvalidArgument")
	}
}
