// SPDX-License-Identifier: MIT

package variational

import (
	"fmt"

	"github.com/katalvlaran/ctbn/ode"
)

// solveRho integrates ρ_i backward from the one-hot end state at T to 0,
// against the current μ and ρ of every other component.
// Complexity: O(steps · M·(M·N² + N³)).
func (e *engine) solveRho(i int, mu, rho []ode.Path) (*ode.Solution, error) {
	f := e.newFrame()
	rhs := func(t float64, y, dydt []float64) error {
		e.load(f, t, mu, rho, e.rhoMuDeps[i], e.rhoRhoDeps[i])
		f.rho[i] = y
		e.rhoDeriv(f, i, dydt)

		return nil
	}
	sol, err := ode.Solve(rhs, e.horizon, 0, oneHot(e.n, e.ys[i]), e.odeOpts...)
	if err != nil {
		return nil, fmt.Errorf("rho of component %d: %w", i, err)
	}

	return sol, nil
}

// solveMu integrates μ_i forward from the one-hot start state at 0 to the
// start of the terminal window, against the current μ of i's neighbors and
// the current ρ_i, and extends it to T along ρ_i (see muAt).
// Complexity: O(steps · (M·N² + N²)).
func (e *engine) solveMu(i int, mu, rho []ode.Path) (ode.Path, error) {
	f := e.newFrame()
	self := []int{i}
	rhs := func(t float64, y, dydt []float64) error {
		e.load(f, t, mu, rho, e.muMuDeps[i], self)
		f.mu[i] = y
		e.muDeriv(f, i, dydt)

		return nil
	}
	sol, err := ode.Solve(rhs, 0, e.tail, oneHot(e.n, e.xs[i]), e.odeOpts...)
	if err != nil {
		return nil, fmt.Errorf("mu of component %d: %w", i, err)
	}

	return newTailPath(sol, rho[i], e.tail), nil
}

// solveBound integrates the bound density from 0 to T and returns F(T).
// Complexity: O(steps · K·(M·N² + N²)).
func (e *engine) solveBound(mu, rho []ode.Path) (float64, error) {
	f := e.newFrame()
	rhs := func(t float64, _, dydt []float64) error {
		e.load(f, t, mu, rho, e.active, e.active)
		dydt[0] = e.boundDeriv(f)

		return nil
	}
	sol, err := ode.Solve(rhs, 0, e.horizon, []float64{0}, e.odeOpts...)
	if err != nil {
		return 0, fmt.Errorf("bound: %w", err)
	}

	return sol.Final()[0], nil
}
