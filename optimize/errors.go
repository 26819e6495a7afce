// SPDX-License-Identifier: MIT
// Package optimize: sentinel error set.

package optimize

import "errors"

var (
	// ErrNilFunc indicates a nil score or update function.
	ErrNilFunc = errors.New("optimize: score and update functions are required")

	// ErrNonFiniteScore indicates a NaN or ±Inf score.
	ErrNonFiniteScore = errors.New("optimize: score is not finite")
)
