// SPDX-License-Identifier: MIT
package optimize_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/ctbn/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halve moves x halfway to 1; score −(x−1)² rises towards 0.
func halve(_ context.Context, x float64) (float64, error) { return (x + 1) / 2, nil }

func negSquare(_ context.Context, x float64) (float64, error) { return -(x - 1) * (x - 1), nil }

func TestRelativeIncrease(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, optimize.RelativeIncrease(-2, -1), 1e-15)
	assert.InDelta(t, 0.5, optimize.RelativeIncrease(2, 3), 1e-15)
	assert.InDelta(t, -0.5, optimize.RelativeIncrease(-2, -3), 1e-15)
	assert.Equal(t, 3.0, optimize.RelativeIncrease(0, 3))
}

func TestBounded_BudgetExhausted(t *testing.T) {
	t.Parallel()

	// Relative increase of −(x−1)² under halving stays 0.75 forever.
	res, err := optimize.Bounded(context.Background(), negSquare, halve, 3.0, optimize.WithMaxUpdates(5))
	require.NoError(t, err)
	assert.Equal(t, optimize.StatusBudgetExhausted, res.Status)
	assert.Equal(t, 5, res.Updates)
	assert.Len(t, res.History, 6)
	assert.InDelta(t, 1+2/32.0, res.State, 1e-15)
	assert.Equal(t, res.History[5], res.Score)
}

func TestBounded_Converged(t *testing.T) {
	t.Parallel()

	// A score that saturates: 10 − 2^{-n}.
	score := func(_ context.Context, n int) (float64, error) { return 10 - math.Pow(2, -float64(n)), nil }
	inc := func(_ context.Context, n int) (int, error) { return n + 1, nil }
	res, err := optimize.Bounded(context.Background(), score, inc, 0,
		optimize.WithMinRelativeIncrease(1e-3), optimize.WithMaxUpdates(100))
	require.NoError(t, err)
	assert.Equal(t, optimize.StatusConverged, res.Status)
	assert.Less(t, res.Updates, 100)
	assert.Equal(t, "converged", res.Status.String())
}

func TestBounded_DecreaseConverges(t *testing.T) {
	t.Parallel()

	down := func(_ context.Context, x float64) (float64, error) { return x - 1, nil }
	id := func(_ context.Context, x float64) (float64, error) { return x, nil }
	res, err := optimize.Bounded(context.Background(), id, down, 5.0)
	require.NoError(t, err)
	assert.Equal(t, optimize.StatusConverged, res.Status)
	assert.Equal(t, 1, res.Updates)
	assert.Equal(t, 4.0, res.Score)
}

func TestBounded_Errors(t *testing.T) {
	t.Parallel()

	_, err := optimize.Bounded[float64](context.Background(), nil, halve, 0)
	require.ErrorIs(t, err, optimize.ErrNilFunc)

	nan := func(context.Context, float64) (float64, error) { return math.NaN(), nil }
	_, err = optimize.Bounded(context.Background(), nan, halve, 0)
	require.ErrorIs(t, err, optimize.ErrNonFiniteScore)

	boom := errors.New("boom")
	fail := func(context.Context, float64) (float64, error) { return 0, boom }
	_, err = optimize.Bounded(context.Background(), negSquare, fail, 0)
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = optimize.Bounded(ctx, negSquare, halve, 3.0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { optimize.WithMaxUpdates(0) })
	assert.Panics(t, func() { optimize.WithMinRelativeIncrease(math.NaN()) })
	assert.Panics(t, func() { optimize.WithLogger(nil) })
}
