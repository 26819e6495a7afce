// SPDX-License-Identifier: MIT
package neighborhood_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainContacts(t *testing.T) {
	t.Parallel()

	c, err := neighborhood.ChainContacts(4, 1)
	require.NoError(t, err)
	nb, err := neighborhood.Build(c)
	require.NoError(t, err)
	assert.Equal(t, 2, nb.M)
	assert.Equal(t, []int{1, 0}, nb.NbrIdx[0])
	assert.Equal(t, []int{0, 2}, nb.NbrIdx[1])
	assert.Equal(t, []int{2, 0}, nb.NbrIdx[3])

	_, err = neighborhood.ChainContacts(0, 1)
	require.ErrorIs(t, err, neighborhood.ErrTooFewComponents)
}

func TestRandomContacts(t *testing.T) {
	t.Parallel()

	a, err := neighborhood.RandomContacts(12, 0.3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := neighborhood.RandomContacts(12, 0.3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String(), "same seed must give the same map")
	require.NoError(t, matrix.ValidateSymmetric(a, 0))

	// Always buildable.
	_, err = neighborhood.Build(a)
	require.NoError(t, err)

	full, err := neighborhood.RandomContacts(3, 1, nil)
	require.NoError(t, err)
	v, _ := full.At(0, 2)
	assert.Equal(t, 1.0, v)

	_, err = neighborhood.RandomContacts(3, 0.5, nil)
	require.ErrorIs(t, err, neighborhood.ErrNeedRandSource)
	_, err = neighborhood.RandomContacts(3, 1.5, nil)
	require.ErrorIs(t, err, neighborhood.ErrInvalidProbability)
}
