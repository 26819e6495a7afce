// SPDX-License-Identifier: MIT
// Package exact_test covers closed-form paths, the joint oracle and equilibria.
package exact_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ctbn/exact"
	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/katalvlaran/ctbn/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

func twoState(t *testing.T) *matrix.Dense {
	return dense(t, [][]float64{{-1, 1}, {1, -1}})
}

func pairModel(t *testing.T, coupling float64) *rates.Model {
	t.Helper()
	nb, err := neighborhood.Build(dense(t, [][]float64{{0, 1}, {1, 0}}))
	require.NoError(t, err)
	m, err := rates.NewModel(rates.Params{
		S: twoState(t),
		J: dense(t, [][]float64{{coupling, -coupling}, {-coupling, coupling}}),
		H: []float64{0, 0},
	}, nb)
	require.NoError(t, err)

	return m
}

func TestSeqIndexRoundTrip(t *testing.T) {
	t.Parallel()

	for idx := 0; idx < 27; idx++ {
		seq := exact.IndexToSeq(idx, 3, 3)
		assert.Equal(t, idx, exact.SeqToIndex(seq, 3))
	}
	assert.Equal(t, 1+2*3, exact.SeqToIndex([]int{1, 2, 0}, 3))
}

func TestRhoMu_TwoState(t *testing.T) {
	t.Parallel()

	const T = 1.0
	q := twoState(t)
	rho, err := exact.NewRho(q, T, 0, 1)
	require.NoError(t, err)
	mu, err := exact.NewMu(q, T, 0, 1)
	require.NoError(t, err)

	want := (1 - math.Exp(-2*T)) / 2
	assert.InDelta(t, want, rho.TransitionProbability(), 1e-12)

	assert.InDeltaSlice(t, []float64{0, 1}, rho.Evaluate(T), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, mu.Evaluate(0), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1}, mu.Evaluate(T), 1e-12)

	// ρ(t)[x] = P(reach 1 by T | x at t).
	r := rho.Evaluate(0.4)
	assert.InDelta(t, (1-math.Exp(-2*0.6))/2, r[0], 1e-12)
	assert.InDelta(t, (1+math.Exp(-2*0.6))/2, r[1], 1e-12)

	for _, tm := range []float64{0.1, 0.5, 0.9} {
		m := mu.Evaluate(tm)
		assert.InDelta(t, 1, m[0]+m[1], 1e-12)
		assert.True(t, m[0] > 0 && m[1] > 0)
	}

	// Clamped outside [0,T].
	assert.Equal(t, rho.Evaluate(T), rho.Evaluate(T+5))
}

func TestNewRho_Errors(t *testing.T) {
	t.Parallel()

	q := twoState(t)
	_, err := exact.NewRho(q, 0, 0, 1)
	require.ErrorIs(t, err, exact.ErrHorizon)
	_, err = exact.NewMu(q, 1, 0, 2)
	require.ErrorIs(t, err, exact.ErrStateRange)
	_, err = exact.NewRho(dense(t, [][]float64{{0, 1}, {1, 0}}), 1, 0, 1)
	require.ErrorIs(t, err, matrix.ErrNotGenerator)
	_, err = exact.NewRho(dense(t, [][]float64{{0, 0}, {1, -1}}), 1, 0, 1)
	require.ErrorIs(t, err, exact.ErrUnreachable)
}

func TestFixedAndZero(t *testing.T) {
	t.Parallel()

	src := []float64{0.25, 0.75}
	f := exact.NewFixed(src)
	src[0] = 9
	got := f.Evaluate(3)
	assert.Equal(t, []float64{0.25, 0.75}, got)
	got[1] = 0
	assert.Equal(t, []float64{0.25, 0.75}, f.Evaluate(0))
	assert.Equal(t, []float64{0, 0, 0}, exact.NewZero(3).Evaluate(1))
}

func TestJointRate_IsGenerator(t *testing.T) {
	t.Parallel()

	q, err := exact.JointRate(pairModel(t, 0.3))
	require.NoError(t, err)
	assert.Equal(t, 4, q.Rows())
	require.NoError(t, matrix.ValidateGenerator(q))

	// No simultaneous jumps: (0,0) → (1,1) has rate zero.
	v, _ := q.At(exact.SeqToIndex([]int{0, 0}, 2), exact.SeqToIndex([]int{1, 1}, 2))
	assert.Zero(t, v)
}

func TestLogConditional_DecoupledPair(t *testing.T) {
	t.Parallel()

	got, err := exact.LogConditional(pairModel(t, 0), []int{0, 0}, []int{1, 1}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Log((1-math.Exp(-2))/2), got, 1e-10)
}

func TestLogConditional_Errors(t *testing.T) {
	t.Parallel()

	m := pairModel(t, 0)
	_, err := exact.LogConditional(m, []int{0}, []int{1, 1}, 1)
	require.ErrorIs(t, err, exact.ErrSequenceLength)
	_, err = exact.LogConditional(m, []int{0, 0}, []int{1, 1}, -1)
	require.ErrorIs(t, err, exact.ErrHorizon)
	_, err = exact.LogConditional(m, []int{0, 5}, []int{1, 1}, 1)
	require.ErrorIs(t, err, exact.ErrStateRange)

	c, err := neighborhood.ChainContacts(8, 1)
	require.NoError(t, err)
	nb, err := neighborhood.Build(c)
	require.NoError(t, err)
	big, err := rates.NewModel(rates.Params{
		S: dense(t, [][]float64{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}),
		J: dense(t, [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}),
		H: []float64{0, 0, 0},
	}, nb)
	require.NoError(t, err)
	_, err = exact.JointRate(big)
	require.ErrorIs(t, err, exact.ErrJointTooLarge)
}

func TestEquilibrium(t *testing.T) {
	t.Parallel()

	pi, err := exact.Equilibrium(dense(t, [][]float64{{-2, 2}, {1, -1}}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3}, pi, 1e-10)

	pi, err = exact.Equilibrium(dense(t, [][]float64{
		{-1, 0.5, 0.5},
		{0.5, -1, 0.5},
		{0.5, 0.5, -1},
	}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, pi, 1e-10)

	// Two disconnected chains: two zero eigenvalues.
	_, err = exact.Equilibrium(dense(t, [][]float64{
		{-1, 1, 0, 0},
		{1, -1, 0, 0},
		{0, 0, -1, 1},
		{0, 0, 1, -1},
	}))
	require.ErrorIs(t, err, exact.ErrAmbiguousEquilibrium)
}

// The equilibrium of the single-component generator is proportional to exp(h).
func TestEquilibrium_SingleComponentRate(t *testing.T) {
	t.Parallel()

	nb, err := neighborhood.Build(dense(t, [][]float64{{0}}))
	require.NoError(t, err)
	h := []float64{0.3, -0.2, 0.5}
	m, err := rates.NewModel(rates.Params{
		S: dense(t, [][]float64{{0, 1, 2}, {1, 0, 0.5}, {2, 0.5, 0}}),
		J: dense(t, [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}),
		H: h,
	}, nb)
	require.NoError(t, err)
	pi, err := exact.Equilibrium(m.SingleComponentRate())
	require.NoError(t, err)

	z := math.Exp(h[0]) + math.Exp(h[1]) + math.Exp(h[2])
	for x := range h {
		assert.InDelta(t, math.Exp(h[x])/z, pi[x], 1e-9)
	}
}
