// SPDX-License-Identifier: MIT
// Package ode: sentinel error set.
// Every message is prefixed with "ode: ..."; match with errors.Is.

package ode

import "errors"

var (
	// ErrMaxSteps indicates the step budget (accepted + rejected) ran out
	// before reaching t1.
	ErrMaxSteps = errors.New("ode: maximum number of steps exceeded")

	// ErrStepUnderflow indicates the controller shrank the step below the
	// resolution of t.
	ErrStepUnderflow = errors.New("ode: step size underflow")

	// ErrNonFinite indicates NaN or ±Inf in the state or initial condition.
	ErrNonFinite = errors.New("ode: non-finite value encountered")

	// ErrEmptyState indicates a zero-length initial condition.
	ErrEmptyState = errors.New("ode: initial state is empty")

	// ErrNilFunc indicates a nil right-hand side.
	ErrNilFunc = errors.New("ode: right-hand side is nil")
)
