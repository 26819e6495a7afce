// SPDX-License-Identifier: MIT
// Package potts: sentinel error set.

package potts

import "errors"

var (
	// ErrSequenceLength indicates a state sequence or θ not of length K.
	ErrSequenceLength = errors.New("potts: sequence length must equal K")

	// ErrStateRange indicates a state outside [0,N).
	ErrStateRange = errors.New("potts: state out of range")

	// ErrTooManyStates indicates an exhaustive sum over more than MaxExactStates.
	ErrTooManyStates = errors.New("potts: state space too large for exact enumeration")
)
