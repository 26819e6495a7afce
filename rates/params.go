// SPDX-License-Identifier: MIT

package rates

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
)

// Floor is the clamp applied before every logarithm and reciprocal: the
// smallest normal float32, so reciprocals stay finite in float64 products.
const Floor = 1.1754943508222875e-38

const (
	methodValidate  = "Validate"
	methodNormalize = "Normalize"
)

// SafeLog returns log(max(x, Floor)).
func SafeLog(x float64) float64 { return math.Log(math.Max(x, Floor)) }

// SafeRecip returns 1/max(x, Floor).
func SafeRecip(x float64) float64 { return 1 / math.Max(x, Floor) }

// Params holds the raw CTBN rate parameters over an alphabet of N states.
//
//   - S: exchangeabilities, only the off-diagonal is read.
//   - J: pairwise couplings J[y,x'] between a component in state y and a
//     neighbor in state x'.
//   - H: per-state bias.
type Params struct {
	S *matrix.Dense
	J *matrix.Dense
	H []float64
}

// N returns the alphabet size (0 when S is nil).
func (p Params) N() int {
	if p.S == nil {
		return 0
	}

	return p.S.Rows()
}

// Validate checks shapes and finiteness.
// Errors: ErrNilParams, ErrShapeMismatch, ErrNonFinite.
func (p Params) Validate() error {
	if p.S == nil || p.J == nil {
		return fmt.Errorf("%s: %w", methodValidate, ErrNilParams)
	}
	n := p.S.Rows()
	if p.S.Cols() != n || p.J.Rows() != n || p.J.Cols() != n || len(p.H) != n {
		return fmt.Errorf("%s: S %dx%d, J %dx%d, len(h)=%d: %w",
			methodValidate, p.S.Rows(), p.S.Cols(), p.J.Rows(), p.J.Cols(), len(p.H), ErrShapeMismatch)
	}
	if err := matrix.ValidateFinite(p.S); err != nil {
		return fmt.Errorf("%s: S: %w: %w", methodValidate, ErrNonFinite, err)
	}
	if err := matrix.ValidateFinite(p.J); err != nil {
		return fmt.Errorf("%s: J: %w: %w", methodValidate, ErrNonFinite, err)
	}
	for x, v := range p.H {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: h[%d]=%g: %w", methodValidate, x, v, ErrNonFinite)
		}
	}

	return nil
}

// Normalize returns a fresh parameter set with
//   - S made non-negative, its off-diagonal symmetrised and its diagonal set to
//     minus the off-diagonal row sum (a valid generator);
//   - J replaced by (J+Jᵀ)/2;
//   - H copied unchanged.
//
// Normalize is idempotent and never mutates p.
// Errors: those of Validate.
// Complexity: O(N²).
func Normalize(p Params) (Params, error) {
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("%s: %w", methodNormalize, err)
	}
	n := p.N()

	// Stage 1: |S| symmetrised; the diagonal is rebuilt below.
	abs := p.S.CloneDense()
	if err := abs.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }); err != nil {
		return Params{}, fmt.Errorf("%s: %w", methodNormalize, err)
	}
	s, err := matrix.Symmetrize(abs)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", methodNormalize, err)
	}
	var (
		x, y   int
		rowSum float64
	)
	for x = 0; x < n; x++ {
		row := s.RawRow(x)
		rowSum = 0
		for y = 0; y < n; y++ {
			if y != x {
				rowSum += row[y]
			}
		}
		row[x] = -rowSum
	}

	// Stage 2: J symmetrised.
	j, err := matrix.Symmetrize(p.J)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", methodNormalize, err)
	}

	return Params{S: s, J: j, H: append([]float64(nil), p.H...)}, nil
}
