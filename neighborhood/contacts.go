// SPDX-License-Identifier: MIT
// Package: ctbn/neighborhood
//
// contacts.go - generators of symmetric 0/1 contact matrices.
//
// Determinism:
//   - ChainContacts is a pure function of (k, span).
//   - RandomContacts draws one Bernoulli trial per unordered pair {i,j}, i<j,
//     in (i asc, j asc) order, so a fixed seed yields a fixed matrix.

package neighborhood

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/ctbn/matrix"
)

const (
	methodChain   = "ChainContacts"
	methodRandom  = "RandomContacts"
	minComponents = 1
)

// ChainContacts returns the contact matrix of k components on a line where
// each component touches those at most span positions away (span ≤ 0 gives no
// contacts). span=1 is the nearest-neighbor chain used by sequence models.
// Errors: ErrTooFewComponents.
func ChainContacts(k, span int) (*matrix.Dense, error) {
	if k < minComponents {
		return nil, fmt.Errorf("%s: k=%d: %w", methodChain, k, ErrTooFewComponents)
	}
	c, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodChain, err)
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k && j-i <= span; j++ {
			_ = c.Set(i, j, 1)
			_ = c.Set(j, i, 1)
		}
	}

	return c, nil
}

// RandomContacts samples a symmetric contact matrix over k components where
// each unordered pair is in contact independently with probability p.
// rng may be nil only when p ∈ {0, 1}.
// Errors: ErrTooFewComponents, ErrInvalidProbability, ErrNeedRandSource.
// Complexity: O(k²).
func RandomContacts(k int, p float64, rng *rand.Rand) (*matrix.Dense, error) {
	if k < minComponents {
		return nil, fmt.Errorf("%s: k=%d: %w", methodRandom, k, ErrTooFewComponents)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%s: p=%.6f: %w", methodRandom, p, ErrInvalidProbability)
	}
	if rng == nil && p > 0 && p < 1 {
		return nil, fmt.Errorf("%s: %w", methodRandom, ErrNeedRandSource)
	}
	c, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodRandom, err)
	}
	var hit bool
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			switch p {
			case 0:
				hit = false
			case 1:
				hit = true
			default:
				hit = rng.Float64() < p
			}
			if hit {
				_ = c.Set(i, j, 1)
				_ = c.Set(j, i, 1)
			}
		}
	}

	return c, nil
}
