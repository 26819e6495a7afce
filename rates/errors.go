// SPDX-License-Identifier: MIT
// Package rates: sentinel error set.
// Every message is prefixed with "rates: ..."; wrap with
// fmt.Errorf("Tag: ...: %w", ErrX) and match with errors.Is.

package rates

import "errors"

var (
	// ErrNilParams indicates a missing S or J matrix.
	ErrNilParams = errors.New("rates: S and J must be non-nil")

	// ErrShapeMismatch indicates S, J and h disagree on the state count N.
	ErrShapeMismatch = errors.New("rates: S, J must be N×N and h must have length N")

	// ErrNonFinite indicates a NaN or ±Inf parameter.
	ErrNonFinite = errors.New("rates: parameters must be finite")

	// ErrComponentRange indicates a component index outside [0,K).
	ErrComponentRange = errors.New("rates: component index out of range")

	// ErrMarginalShape indicates a marginal snapshot that is not K×N.
	ErrMarginalShape = errors.New("rates: marginals must be K×N")

	// ErrStateRange indicates a state index outside [0,N).
	ErrStateRange = errors.New("rates: state index out of range")

	// ErrDiagonalRate indicates a query for x→x on a tensor only defined for x≠y.
	ErrDiagonalRate = errors.New("rates: conditional rates are only defined for x != y")

	// ErrPaddingSlot indicates a query on a neighbor slot that holds no real neighbor.
	ErrPaddingSlot = errors.New("rates: neighbor slot is padding")
)
