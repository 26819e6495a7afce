// SPDX-License-Identifier: MIT
// Package neighborhood_test covers Build, Validate and the state helpers.
package neighborhood_test

import (
	"testing"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

func TestRoundUpPow2(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 17: 32, 64: 64}
	for in, want := range cases {
		assert.Equalf(t, want, neighborhood.RoundUpPow2(in), "RoundUpPow2(%d)", in)
	}
}

func TestBuild_Pair(t *testing.T) {
	t.Parallel()

	nb, err := neighborhood.Build(mustDense(t, [][]float64{{0, 1}, {1, 0}}))
	require.NoError(t, err)
	assert.Equal(t, 2, nb.K)
	assert.Equal(t, 2, nb.KPrepad)
	assert.Equal(t, 1, nb.M)
	assert.Equal(t, []bool{true, true}, nb.SeqMask)
	assert.Equal(t, [][]int{{1}, {0}}, nb.NbrIdx)
	assert.Equal(t, [][]bool{{true}, {true}}, nb.NbrMask)
	require.NoError(t, nb.Validate())
}

func TestBuild_PaddingAndOrder(t *testing.T) {
	t.Parallel()

	// Star centered on 0 with three leaves: K_prepad=4, degree(0)=3.
	c := mustDense(t, [][]float64{
		{0, 1, 1, 1},
		{1, 0, 0, 0},
		{1, 0, 0, 0},
		{1, 0, 0, 0},
	})
	nb, err := neighborhood.Build(c, neighborhood.WithPaddedSize(6))
	require.NoError(t, err)
	assert.Equal(t, 6, nb.K)
	assert.Equal(t, 4, nb.M)
	assert.Equal(t, []int{1, 2, 3, 0}, nb.NbrIdx[0])
	assert.Equal(t, []bool{true, true, true, false}, nb.NbrMask[0])
	assert.Equal(t, []bool{true, false, false, false}, nb.NbrMask[1])
	assert.False(t, nb.SeqMask[4])
	assert.Equal(t, []bool{false, false, false, false}, nb.NbrMask[5])
	assert.Equal(t, 3, nb.Degree(0))
	assert.Equal(t, []int{0, 1, 2, 3}, nb.RealComponents())

	slot, ok := nb.SlotOf(2, 0)
	require.True(t, ok)
	assert.Equal(t, 0, slot)
	slot, ok = nb.SlotOf(0, 3)
	require.True(t, ok)
	assert.Equal(t, 2, slot)
	_, ok = nb.SlotOf(1, 2)
	assert.False(t, ok)
	require.NoError(t, nb.Validate())
}

func TestBuild_IsolatedComponent(t *testing.T) {
	t.Parallel()

	nb, err := neighborhood.Build(mustDense(t, [][]float64{{0}}))
	require.NoError(t, err)
	assert.Equal(t, 1, nb.K)
	assert.Equal(t, 1, nb.M)
	assert.Equal(t, [][]bool{{false}}, nb.NbrMask)
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	pair := [][]float64{{0, 1}, {1, 0}}
	nonSquare, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	tests := []struct {
		name    string
		c       matrix.Matrix
		opts    []neighborhood.Option
		wantErr error
	}{
		{"nil", nil, nil, neighborhood.ErrEmptyContacts},
		{"non-square", nonSquare, nil, matrix.ErrNonSquare},
		{"non-binary", mustDense(t, [][]float64{{0, 0.5}, {0.5, 0}}), nil, neighborhood.ErrNonBinaryContact},
		{"self contact", mustDense(t, [][]float64{{1, 0}, {0, 0}}), nil, neighborhood.ErrNonBinaryContact},
		{"asymmetric", mustDense(t, [][]float64{{0, 1}, {0, 0}}), nil, neighborhood.ErrAsymmetricContact},
		{"K too small", mustDense(t, pair), []neighborhood.Option{neighborhood.WithPaddedSize(1)}, neighborhood.ErrPaddedSizeTooSmall},
		{
			"M too small",
			mustDense(t, [][]float64{{0, 1, 1}, {1, 0, 0}, {1, 0, 0}}),
			[]neighborhood.Option{neighborhood.WithMaxNeighbors(1)},
			neighborhood.ErrTooManyNeighbors,
		},
		{"xs length", mustDense(t, pair), []neighborhood.Option{neighborhood.WithStates([]int{0}, nil)}, neighborhood.ErrStateLength},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := neighborhood.Build(tc.c, tc.opts...)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBuild_States(t *testing.T) {
	t.Parallel()

	c := mustDense(t, [][]float64{{0, 1, 0}, {1, 0, 1}, {0, 1, 0}})
	nb, err := neighborhood.Build(c, neighborhood.WithStates([]int{2, 1, 3}, []int{0, 0, 1}))
	require.NoError(t, err)
	assert.Equal(t, 4, nb.K)
	assert.Equal(t, []int{2, 1, 3, 0}, nb.XS)
	assert.Equal(t, []int{0, 0, 1, 0}, nb.YS)
}

func TestOptions_PanicOnNonPositive(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { neighborhood.WithPaddedSize(0) })
	assert.Panics(t, func() { neighborhood.WithMaxNeighbors(-1) })
}

func TestValidate_RejectsBrokenStructures(t *testing.T) {
	t.Parallel()

	valid := func() *neighborhood.Neighborhood {
		return &neighborhood.Neighborhood{
			K: 2, KPrepad: 2, M: 1,
			SeqMask: []bool{true, true},
			NbrIdx:  [][]int{{1}, {0}},
			NbrMask: [][]bool{{true}, {true}},
		}
	}
	require.NoError(t, valid().Validate())

	oneSided := valid()
	oneSided.NbrMask[1][0] = false
	require.ErrorIs(t, oneSided.Validate(), neighborhood.ErrInvalidNeighborhood)

	toPadding := valid()
	toPadding.SeqMask[1] = false
	require.ErrorIs(t, toPadding.Validate(), neighborhood.ErrInvalidNeighborhood)

	ragged := valid()
	ragged.NbrIdx[0] = []int{1, 0}
	require.ErrorIs(t, ragged.Validate(), neighborhood.ErrInvalidNeighborhood)

	selfLoop := valid()
	selfLoop.NbrIdx[0][0] = 0
	require.ErrorIs(t, selfLoop.Validate(), neighborhood.ErrInvalidNeighborhood)

	duplicate := &neighborhood.Neighborhood{
		K: 2, KPrepad: 2, M: 2,
		SeqMask: []bool{true, true},
		NbrIdx:  [][]int{{1, 1}, {0, 0}},
		NbrMask: [][]bool{{true, true}, {true, false}},
	}
	err := duplicate.Validate()
	require.ErrorIs(t, err, neighborhood.ErrInvalidNeighborhood)
	assert.Contains(t, err.Error(), "slots 0 and 1")

	var nilNb *neighborhood.Neighborhood
	require.ErrorIs(t, nilNb.Validate(), neighborhood.ErrInvalidNeighborhood)
}
