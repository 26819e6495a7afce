// SPDX-License-Identifier: MIT
// Package neighborhood: sentinel error set.
// Every message is prefixed with "neighborhood: ..."; wrap with
// fmt.Errorf("Tag: ...: %w", ErrX) and match with errors.Is.

package neighborhood

import "errors"

var (
	// ErrEmptyContacts indicates a nil or 0×0 contact matrix.
	ErrEmptyContacts = errors.New("neighborhood: contact matrix is empty")

	// ErrNonBinaryContact indicates a contact entry other than 0 or 1, or a
	// non-zero diagonal (a component cannot contact itself).
	ErrNonBinaryContact = errors.New("neighborhood: contact entries must be 0/1 with zero diagonal")

	// ErrAsymmetricContact indicates C[i,j] != C[j,i].
	ErrAsymmetricContact = errors.New("neighborhood: contact matrix is not symmetric")

	// ErrPaddedSizeTooSmall indicates a requested padded size K below the
	// number of real components.
	ErrPaddedSizeTooSmall = errors.New("neighborhood: padded size is smaller than the number of components")

	// ErrTooManyNeighbors indicates a component with more neighbors than M slots.
	ErrTooManyNeighbors = errors.New("neighborhood: M must be at least as large as the largest number of neighbors")

	// ErrStateLength indicates boundary states whose length differs from the
	// number of real components.
	ErrStateLength = errors.New("neighborhood: boundary state length must equal the number of components")

	// ErrInvalidNeighborhood indicates a structurally inconsistent Neighborhood
	// (ragged rows, out-of-range indices, padding listed as a neighbor,
	// one-sided contacts).
	ErrInvalidNeighborhood = errors.New("neighborhood: invalid neighborhood structure")

	// ErrInvalidProbability indicates a contact probability outside [0,1].
	ErrInvalidProbability = errors.New("neighborhood: probability must be in [0,1]")

	// ErrNeedRandSource indicates a stochastic generator was called without an RNG.
	ErrNeedRandSource = errors.New("neighborhood: random source is required")

	// ErrTooFewComponents indicates a generator was asked for fewer than one component.
	ErrTooFewComponents = errors.New("neighborhood: at least one component is required")
)
