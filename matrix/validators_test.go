// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNotNil(t *testing.T) {
	var typedNil *matrix.Dense
	assert.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)
	assert.ErrorIs(t, matrix.ValidateNotNil(typedNil), matrix.ErrNilMatrix)
	assert.NoError(t, matrix.ValidateNotNil(mustDense(t, [][]float64{{1}})))
}

func TestValidateShapes(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}})
	b := mustDense(t, [][]float64{{1}, {2}})
	assert.ErrorIs(t, matrix.ValidateSameShape(a, b), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, matrix.ValidateBinarySameShape(a, nil), matrix.ErrNilMatrix)
	assert.ErrorIs(t, matrix.ValidateSquare(a), matrix.ErrNonSquare)
	assert.ErrorIs(t, matrix.ValidateSquareNonNil(nil), matrix.ErrNilMatrix)
	assert.ErrorIs(t, matrix.ValidateVecLen(nil, 0), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
	assert.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
}

func TestValidateFinite(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, matrix.ValidateFinite(m))

	row, _ := m.RowView(1)
	row[1] = math.NaN() // RowView bypasses the Set policy
	assert.ErrorIs(t, matrix.ValidateFinite(m), matrix.ErrNaNInf)
}

func TestValidateSymmetric(t *testing.T) {
	sym := mustDense(t, [][]float64{{0, 1.5}, {1.5 + 1e-12, 0}})
	assert.NoError(t, matrix.ValidateSymmetric(sym, 1e-9))
	assert.ErrorIs(t, matrix.ValidateSymmetric(sym, 0), matrix.ErrAsymmetry)
	assert.ErrorIs(t, matrix.ValidateSymmetric(mustDense(t, [][]float64{{1, 2}}), 1), matrix.ErrNonSquare)
}

func TestValidateGenerator(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"valid", [][]float64{{-1, 1}, {2, -2}}, nil},
		{"zero", [][]float64{{0, 0}, {0, 0}}, nil},
		{"negative rate", [][]float64{{1, -1}, {2, -2}}, matrix.ErrNotGenerator},
		{"row sum", [][]float64{{-1, 1.1}, {2, -2}}, matrix.ErrNotGenerator},
		{"non-square", [][]float64{{-1, 1}}, matrix.ErrNonSquare},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateGenerator(mustDense(t, tc.rows))
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// A loose epsilon accepts rounding noise.
	noisy := mustDense(t, [][]float64{{-1, 1 + 1e-7}, {2, -2}})
	assert.ErrorIs(t, matrix.ValidateGenerator(noisy), matrix.ErrNotGenerator)
	assert.NoError(t, matrix.ValidateGenerator(noisy, matrix.WithEpsilon(1e-6)))
}

func TestWithEpsilonPanics(t *testing.T) {
	assert.Panics(t, func() { matrix.WithEpsilon(-1) })
	assert.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	assert.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
