// SPDX-License-Identifier: MIT
// Package ode_test covers accuracy, dense output, direction and failure modes.
package ode_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/ctbn/ode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decay(_ float64, y, dydt []float64) error {
	for i := range y {
		dydt[i] = -y[i]
	}

	return nil
}

func oscillator(_ float64, y, dydt []float64) error {
	dydt[0] = y[1]
	dydt[1] = -y[0]

	return nil
}

func TestSolve_ExponentialDecay(t *testing.T) {
	t.Parallel()

	sol, err := ode.Solve(decay, 0, 2, []float64{1, 3}, ode.WithTolerances(1e-8, 1e-10))
	require.NoError(t, err)
	final := sol.Final()
	assert.InDelta(t, math.Exp(-2), final[0], 1e-7)
	assert.InDelta(t, 3*math.Exp(-2), final[1], 3e-7)
	assert.Greater(t, sol.Steps, 1)
	assert.Greater(t, sol.Evaluations, 6*sol.Steps-1)

	// Dense output between steps.
	for _, tm := range []float64{0.1, 0.37, 1, 1.55, 1.99} {
		y := sol.Evaluate(tm)
		assert.InDelta(t, math.Exp(-tm), y[0], 1e-6, "t=%g", tm)
	}
}

func TestSolve_Backward(t *testing.T) {
	t.Parallel()

	// y' = -y from y(1) = 1 backward to 0: y(t) = e^{1-t}.
	sol, err := ode.Solve(decay, 1, 0, []float64{1}, ode.WithTolerances(1e-8, 1e-10))
	require.NoError(t, err)
	assert.InDelta(t, math.E, sol.Final()[0], 1e-6)
	assert.InDelta(t, math.Exp(0.5), sol.Evaluate(0.5)[0], 1e-6)
	t0, t1 := sol.Span()
	assert.Equal(t, 1.0, t0)
	assert.Equal(t, 0.0, t1)

	// Clamping outside the span.
	assert.Equal(t, []float64{1}, sol.Evaluate(2))
	assert.InDelta(t, math.E, sol.Evaluate(-1)[0], 1e-6)
}

func TestSolve_HarmonicOscillator(t *testing.T) {
	t.Parallel()

	const T = 2 * math.Pi
	sol, err := ode.Solve(oscillator, 0, T, []float64{1, 0}, ode.WithTolerances(1e-9, 1e-12))
	require.NoError(t, err)
	final := sol.Final()
	assert.InDelta(t, 1, final[0], 1e-6)
	assert.InDelta(t, 0, final[1], 1e-6)
	y := sol.Evaluate(math.Pi / 2)
	assert.InDelta(t, 0, y[0], 1e-6)
	assert.InDelta(t, -1, y[1], 1e-6)

	back, err := ode.Solve(oscillator, T, 0, final, ode.WithTolerances(1e-9, 1e-12))
	require.NoError(t, err)
	assert.InDelta(t, 1, back.Final()[0], 1e-5)
}

func TestSolve_DefaultTolerances(t *testing.T) {
	t.Parallel()

	sol, err := ode.Solve(decay, 0, 1, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1), sol.Final()[0], 1e-4)
	assert.InDelta(t, math.Exp(-0.3), sol.Evaluate(0.3)[0], 1e-4)
}

func TestSolve_EmptySpan(t *testing.T) {
	t.Parallel()

	sol, err := ode.Solve(decay, 1, 1, []float64{4})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, sol.Final())
	assert.Equal(t, []float64{4}, sol.Evaluate(7))
	assert.Zero(t, sol.Steps)
}

func TestSolve_Errors(t *testing.T) {
	t.Parallel()

	_, err := ode.Solve(nil, 0, 1, []float64{1})
	require.ErrorIs(t, err, ode.ErrNilFunc)
	_, err = ode.Solve(decay, 0, 1, nil)
	require.ErrorIs(t, err, ode.ErrEmptyState)
	_, err = ode.Solve(decay, 0, 1, []float64{math.NaN()})
	require.ErrorIs(t, err, ode.ErrNonFinite)

	// A stiff problem with a tiny budget.
	stiff := func(_ float64, y, dydt []float64) error {
		dydt[0] = -1e5 * (y[0] - 1)
		return nil
	}
	_, err = ode.Solve(stiff, 0, 10, []float64{0}, ode.WithMaxSteps(20))
	require.ErrorIs(t, err, ode.ErrMaxSteps)

	// Blow-up in finite time: y' = y², y(0)=1 explodes at t=1.
	blowup := func(_ float64, y, dydt []float64) error {
		dydt[0] = y[0] * y[0]
		return nil
	}
	_, err = ode.Solve(blowup, 0, 2, []float64{1}, ode.WithMaxSteps(100000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ode.ErrStepUnderflow) || errors.Is(err, ode.ErrNonFinite) || errors.Is(err, ode.ErrMaxSteps))

	// RHS errors propagate unchanged.
	boom := errors.New("boom")
	_, err = ode.Solve(func(float64, []float64, []float64) error { return boom }, 0, 1, []float64{1})
	require.ErrorIs(t, err, boom)
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { ode.WithTolerances(0, 1e-6) })
	assert.Panics(t, func() { ode.WithTolerances(1e-3, math.Inf(1)) })
	assert.Panics(t, func() { ode.WithMaxSteps(0) })
	assert.Panics(t, func() { ode.WithInitialStep(-1) })
	assert.Panics(t, func() { ode.WithMaxStep(math.NaN()) })
}

func TestSolve_FixedInitialAndMaxStep(t *testing.T) {
	t.Parallel()

	sol, err := ode.Solve(decay, 0, 1, []float64{1}, ode.WithInitialStep(1e-3), ode.WithMaxStep(0.05))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sol.Steps, 20)
	assert.InDelta(t, math.Exp(-1), sol.Final()[0], 1e-5)
}
