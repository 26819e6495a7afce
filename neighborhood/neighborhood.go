// SPDX-License-Identifier: MIT

package neighborhood

import (
	"fmt"
	"math/bits"

	"github.com/katalvlaran/ctbn/matrix"
)

const (
	methodBuild    = "Build"
	methodValidate = "Validate"
	methodPad      = "PadStates"
)

// Neighborhood is the padded sparse contact structure of K components with at
// most M neighbors each.
//
// Invariants (checked by Validate):
//   - len(SeqMask) == K, len(NbrIdx) == len(NbrMask) == K, every row has M slots.
//   - Padding slots carry NbrMask false and NbrIdx 0; they never contribute.
//   - A masked-in neighbor is a real component listed once, and contacts are mutual.
//   - Padding components (SeqMask false) have no neighbors.
type Neighborhood struct {
	K       int      // padded component count
	KPrepad int      // number of real components (the first KPrepad indices)
	M       int      // neighbor slots per component
	SeqMask []bool   // SeqMask[i] ⇔ component i is real
	NbrIdx  [][]int  // NbrIdx[i][j] is the j-th neighbor of i (0 when padding)
	NbrMask [][]bool // NbrMask[i][j] ⇔ slot j of i holds a real neighbor

	// XS and YS are the zero-padded boundary states, set only when Build
	// received WithStates.
	XS, YS []int
}

// RoundUpPow2 returns the smallest power of two ≥ x; values ≤ 1 map to 1.
func RoundUpPow2(x int) int {
	if x <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(x-1))
}

// Build converts a dense symmetric 0/1 contact matrix into a padded
// Neighborhood.
//
// Implementation:
//   - Stage 1: validate the contact matrix (non-empty, square, binary, zero
//     diagonal, symmetric) and collect each row's neighbors in ascending order.
//   - Stage 2: resolve K and M (round up to powers of two unless supplied)
//     and check they fit.
//   - Stage 3: fill padded index/mask rows and pad boundary states.
//
// Errors:
//   - ErrEmptyContacts, matrix.ErrNonSquare, ErrNonBinaryContact,
//     ErrAsymmetricContact, ErrPaddedSizeTooSmall, ErrTooManyNeighbors,
//     ErrStateLength.
//
// Complexity:
//   - Time O(K_prepad² + K·M), Space O(K·M).
func Build(contact matrix.Matrix, opts ...Option) (*Neighborhood, error) {
	cfg := gatherOptions(opts...)

	// Stage 1: validate and collect.
	if err := matrix.ValidateNotNil(contact); err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, ErrEmptyContacts)
	}
	if err := matrix.ValidateSquare(contact); err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}
	kPrepad := contact.Rows()
	lists := make([][]int, kPrepad)
	maxDeg := 0
	var (
		i, j     int
		cij, cji float64
	)
	for i = 0; i < kPrepad; i++ {
		for j = 0; j < kPrepad; j++ {
			cij, _ = contact.At(i, j)
			if cij != 0 && cij != 1 || (i == j && cij != 0) {
				return nil, fmt.Errorf("%s: C[%d,%d]=%g: %w", methodBuild, i, j, cij, ErrNonBinaryContact)
			}
			cji, _ = contact.At(j, i)
			if cij != cji {
				return nil, fmt.Errorf("%s: C[%d,%d]=%g vs C[%d,%d]=%g: %w", methodBuild, i, j, cij, j, i, cji, ErrAsymmetricContact)
			}
			if cij == 1 {
				lists[i] = append(lists[i], j)
			}
		}
		maxDeg = max(maxDeg, len(lists[i]))
	}

	// Stage 2: resolve padded sizes.
	k := cfg.k
	if k == 0 {
		k = RoundUpPow2(kPrepad)
	} else if k < kPrepad {
		return nil, fmt.Errorf("%s: K=%d < K_prepad=%d: %w", methodBuild, k, kPrepad, ErrPaddedSizeTooSmall)
	}
	m := cfg.m
	if m == 0 {
		m = RoundUpPow2(maxDeg)
	} else if m < maxDeg {
		return nil, fmt.Errorf("%s: M=%d < max degree %d: %w", methodBuild, m, maxDeg, ErrTooManyNeighbors)
	}

	// Stage 3: fill.
	nb := &Neighborhood{
		K:       k,
		KPrepad: kPrepad,
		M:       m,
		SeqMask: make([]bool, k),
		NbrIdx:  make([][]int, k),
		NbrMask: make([][]bool, k),
	}
	for i = 0; i < k; i++ {
		nb.SeqMask[i] = i < kPrepad
		nb.NbrIdx[i] = make([]int, m)
		nb.NbrMask[i] = make([]bool, m)
		if i >= kPrepad {
			continue
		}
		for j, n := range lists[i] {
			nb.NbrIdx[i][j] = n
			nb.NbrMask[i][j] = true
		}
	}

	var err error
	if cfg.hasXS {
		if nb.XS, err = nb.PadStates(cfg.xs); err != nil {
			return nil, fmt.Errorf("%s: xs: %w", methodBuild, err)
		}
	}
	if cfg.hasYS {
		if nb.YS, err = nb.PadStates(cfg.ys); err != nil {
			return nil, fmt.Errorf("%s: ys: %w", methodBuild, err)
		}
	}

	return nb, nil
}

// PadStates zero-pads a per-component state vector of length KPrepad to K.
// Errors: ErrStateLength.
func (nb *Neighborhood) PadStates(states []int) ([]int, error) {
	if len(states) != nb.KPrepad {
		return nil, fmt.Errorf("%s: len=%d want %d: %w", methodPad, len(states), nb.KPrepad, ErrStateLength)
	}
	out := make([]int, nb.K)
	copy(out, states)

	return out, nil
}

// Validate checks the structural invariants listed on Neighborhood.
// Hand-assembled neighborhoods must pass it before use; Build output always does.
// Complexity: O(K·M²).
func (nb *Neighborhood) Validate() error {
	if nb == nil || nb.K <= 0 || nb.M <= 0 {
		return fmt.Errorf("%s: empty: %w", methodValidate, ErrInvalidNeighborhood)
	}
	if len(nb.SeqMask) != nb.K || len(nb.NbrIdx) != nb.K || len(nb.NbrMask) != nb.K {
		return fmt.Errorf("%s: rows != K=%d: %w", methodValidate, nb.K, ErrInvalidNeighborhood)
	}
	for i := 0; i < nb.K; i++ {
		if len(nb.NbrIdx[i]) != nb.M || len(nb.NbrMask[i]) != nb.M {
			return fmt.Errorf("%s: row %d has != M=%d slots: %w", methodValidate, i, nb.M, ErrInvalidNeighborhood)
		}
		for j := 0; j < nb.M; j++ {
			if !nb.NbrMask[i][j] {
				continue
			}
			n := nb.NbrIdx[i][j]
			switch {
			case !nb.SeqMask[i]:
				return fmt.Errorf("%s: padding component %d has neighbor slot %d: %w", methodValidate, i, j, ErrInvalidNeighborhood)
			case n < 0 || n >= nb.K || n == i:
				return fmt.Errorf("%s: NbrIdx[%d][%d]=%d: %w", methodValidate, i, j, n, ErrInvalidNeighborhood)
			case !nb.SeqMask[n]:
				return fmt.Errorf("%s: component %d lists padding %d: %w", methodValidate, i, n, ErrInvalidNeighborhood)
			}
			for l := 0; l < j; l++ {
				if nb.NbrMask[i][l] && nb.NbrIdx[i][l] == n {
					return fmt.Errorf("%s: component %d lists %d in slots %d and %d: %w", methodValidate, i, n, l, j, ErrInvalidNeighborhood)
				}
			}
			if _, ok := nb.SlotOf(n, i); !ok {
				return fmt.Errorf("%s: contact %d→%d is one-sided: %w", methodValidate, i, n, ErrInvalidNeighborhood)
			}
		}
	}

	return nil
}

// SlotOf returns the slot holding i in k's neighbor list.
// Complexity: O(M).
func (nb *Neighborhood) SlotOf(k, i int) (int, bool) {
	for j := 0; j < nb.M; j++ {
		if nb.NbrMask[k][j] && nb.NbrIdx[k][j] == i {
			return j, true
		}
	}

	return 0, false
}

// Degree returns the number of real neighbors of component i.
func (nb *Neighborhood) Degree(i int) int {
	d := 0
	for _, ok := range nb.NbrMask[i] {
		if ok {
			d++
		}
	}

	return d
}

// RealComponents returns the indices i with SeqMask[i] in ascending order.
func (nb *Neighborhood) RealComponents() []int {
	out := make([]int, 0, nb.KPrepad)
	for i, ok := range nb.SeqMask {
		if ok {
			out = append(out, i)
		}
	}

	return out
}
