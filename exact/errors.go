// SPDX-License-Identifier: MIT
// Package exact: sentinel error set.
// Every message is prefixed with "exact: ..."; match with errors.Is.

package exact

import "errors"

var (
	// ErrHorizon indicates a non-positive or non-finite time horizon T.
	ErrHorizon = errors.New("exact: horizon T must be finite and > 0")

	// ErrStateRange indicates a start or end state outside [0,N).
	ErrStateRange = errors.New("exact: state out of range")

	// ErrUnreachable indicates exp(QT)[x,y] == 0: the end state cannot be
	// reached, so the conditioned paths are undefined.
	ErrUnreachable = errors.New("exact: end state is unreachable from start state")

	// ErrJointTooLarge indicates a joint state space above MaxJointStates.
	ErrJointTooLarge = errors.New("exact: joint state space too large")

	// ErrAmbiguousEquilibrium indicates a repeated eigenvalue closest to zero,
	// so the stationary direction is not unique.
	ErrAmbiguousEquilibrium = errors.New("exact: ambiguous equilibrium (repeated near-zero eigenvalue)")

	// ErrEigenFailed indicates the eigendecomposition did not converge.
	ErrEigenFailed = errors.New("exact: eigendecomposition failed")

	// ErrSequenceLength indicates a state sequence of the wrong length.
	ErrSequenceLength = errors.New("exact: state sequence has the wrong length")
)
