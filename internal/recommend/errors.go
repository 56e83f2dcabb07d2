// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recommendation core. All of them are returned as
// values to the immediate caller; none terminates the process. The API
// layer maps each kind to a transport-level response.
var (
	// ErrUserNotFound indicates the requested user identifier is absent
	// from the store. Surfaced to callers as a not-found signal.
	ErrUserNotFound = errors.New("user not found")

	// ErrDimensionMismatch indicates a vector whose length disagrees with
	// the store's fixed dimensionality or with its comparison partner.
	// Vectors are never truncated or padded to fit.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidArgument indicates a malformed request, such as a
	// non-positive K or an unknown metric name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNonFinite indicates a vector containing NaN or infinite
	// components. Raised on ingest, before any state is mutated.
	ErrNonFinite = fmt.Errorf("%w: vector component is not finite", ErrInvalidArgument)
)

// DimensionError reports a vector length that disagrees with the expected
// dimensionality. It unwraps to ErrDimensionMismatch so callers can match
// with errors.Is.
type DimensionError struct {
	// Want is the expected dimensionality.
	Want int

	// Got is the offending vector's length.
	Got int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// Unwrap makes errors.Is(err, ErrDimensionMismatch) match.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// NewDimensionError returns a DimensionError for the given expected and
// actual lengths.
func NewDimensionError(want, got int) error {
	return &DimensionError{Want: want, Got: got}
}
