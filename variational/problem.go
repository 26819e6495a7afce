// SPDX-License-Identifier: MIT

package variational

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/katalvlaran/ctbn/rates"
)

const methodValidate = "Problem.Validate"

// Problem is one conditional query: the log-probability that the system
// started in XS ends in YS after time T.
//
// XS and YS are padded to the neighborhood's K (see neighborhood.PadStates);
// entries of padding components are ignored.
type Problem struct {
	Seed         int64 // seeds the sweep permutations
	XS, YS       []int
	Neighborhood *neighborhood.Neighborhood
	Params       rates.Params
	T            float64
}

// Validate checks shapes and ranges. Every failure wraps ErrInvalidProblem
// together with the specific sentinel.
// Complexity: O(K·M² + N²).
func (p Problem) Validate() error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("%s: %w: %w", methodValidate, ErrInvalidProblem, err)
	}

	return nil
}

func (p Problem) validate() error {
	if p.Neighborhood == nil {
		return ErrNilNeighborhood
	}
	if err := p.Neighborhood.Validate(); err != nil {
		return err
	}
	if err := p.Params.Validate(); err != nil {
		return err
	}
	if !(p.T > 0) || math.IsInf(p.T, 0) {
		return fmt.Errorf("T=%g: %w", p.T, ErrHorizon)
	}
	k, n := p.Neighborhood.K, p.Params.N()
	if len(p.XS) != k || len(p.YS) != k {
		return fmt.Errorf("len(xs)=%d len(ys)=%d K=%d: %w", len(p.XS), len(p.YS), k, ErrStateLength)
	}
	for i, ok := range p.Neighborhood.SeqMask {
		if !ok {
			continue
		}
		if p.XS[i] < 0 || p.XS[i] >= n || p.YS[i] < 0 || p.YS[i] >= n {
			return fmt.Errorf("component %d: xs=%d ys=%d N=%d: %w", i, p.XS[i], p.YS[i], n, ErrStateRange)
		}
	}

	return nil
}
