// SPDX-License-Identifier: MIT

package ode

// Path is a trajectory that can be queried at any time in its span.
// Evaluate returns a fresh slice the caller may keep or mutate.
type Path interface {
	Evaluate(t float64) []float64
}

// Func is the right-hand side dy/dt = f(t, y). It writes the derivative into
// dydt (same length as y) and must not retain either slice. A non-nil error
// aborts the solve.
type Func func(t float64, y, dydt []float64) error
