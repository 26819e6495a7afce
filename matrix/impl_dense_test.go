// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hide wraps a Matrix so type switches cannot see *Dense and kernels take
// their At/Set fallback.
type hide struct{ matrix.Matrix }

func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestShape(t *testing.T) {
	m, err := matrix.NewDense(3, 4)
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	r, c := m.Shape()
	require.Equal(t, [2]int{3, 4}, [2]int{r, c})
}

// TestAtSetOutOfRange ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfRange(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
	_, err = m.RowView(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestSetRejectsNonFinite(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Zero(t, v, "a rejected Set must not write")
}

func TestNewDenseFrom(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = matrix.NewDenseFrom(nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDenseFrom([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrRaggedRows)
	_, err = matrix.NewDenseFrom([][]float64{{1, math.Inf(1)}})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestNewIdentity(t *testing.T) {
	id, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	id.Do(func(i, j int, v float64) bool {
		if i == j {
			assert.Equal(t, 1.0, v)
		} else {
			assert.Zero(t, v)
		}
		return true
	})
}

// TestRowViewAliases checks RowView and RawRow share the backing buffer.
func TestRowViewAliases(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	row, err := m.RowView(1)
	require.NoError(t, err)
	row[0] = 30
	v, _ := m.At(1, 0)
	require.Equal(t, 30.0, v)

	m.RawRow(0)[1] = 20
	v, _ = m.At(0, 1)
	require.Equal(t, 20.0, v)
	require.Len(t, append(m.RawRow(0), 99), 3, "append must not spill into the next row")
	v, _ = m.At(1, 0)
	require.Equal(t, 30.0, v)
}

func TestCloneIsDeep(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	c := m.CloneDense()
	require.NoError(t, c.Set(0, 0, 100))
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v)
}

func TestDoStopsEarly(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	var seen []float64
	m.Do(func(_, _ int, v float64) bool {
		seen = append(seen, v)
		return v < 2
	})
	require.Equal(t, []float64{1, 2}, seen)
}

func TestApply(t *testing.T) {
	m := mustDense(t, [][]float64{{-1, 2}, {3, -4}})
	require.NoError(t, m.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }))
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())

	err := m.Apply(func(i, j int, v float64) float64 {
		if i == 1 && j == 0 {
			return math.NaN()
		}
		return v
	})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
