// SPDX-License-Identifier: MIT
// Package variational: sentinel error set.

package variational

import "errors"

var (
	// ErrInvalidProblem wraps every shape or invariant violation found before
	// any ODE work starts.
	ErrInvalidProblem = errors.New("variational: invalid problem")

	// ErrHorizon indicates T ≤ 0 or non-finite.
	ErrHorizon = errors.New("variational: horizon T must be finite and > 0")

	// ErrStateLength indicates XS or YS not of length K.
	ErrStateLength = errors.New("variational: boundary states must have length K")

	// ErrStateRange indicates a boundary state of a real component outside [0,N).
	ErrStateRange = errors.New("variational: boundary state out of range")

	// ErrNilNeighborhood indicates a Problem without a neighborhood.
	ErrNilNeighborhood = errors.New("variational: neighborhood is nil")
)
