// SPDX-License-Identifier: MIT

package exact

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/ctbn/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const methodEquilibrium = "Equilibrium"

// Closeness test for "the same" eigenvalue magnitude.
const (
	eqRelTol = 1e-5
	eqAbsTol = 1e-8
)

// Equilibrium returns the stationary distribution π of a generator q
// (πQ = 0, Σπ = 1): the left eigenvector of the eigenvalue closest to zero.
//
// Errors:
//   - matrix validation errors for a non-generator q.
//   - ErrEigenFailed when the factorisation does not converge.
//   - ErrAmbiguousEquilibrium when more than one eigenvalue ties for closest
//     to zero (reducible chain).
//
// Complexity: O(N³).
func Equilibrium(q matrix.Matrix) ([]float64, error) {
	if err := matrix.ValidateGenerator(q); err != nil {
		return nil, fmt.Errorf("%s: %w", methodEquilibrium, err)
	}
	g, err := matrix.ToGonum(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodEquilibrium, err)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(g, mat.EigenLeft); !ok {
		return nil, fmt.Errorf("%s: %w", methodEquilibrium, ErrEigenFailed)
	}
	vals := eig.Values(nil)
	mags := make([]float64, len(vals))
	for i, v := range vals {
		mags[i] = cmplx.Abs(v)
	}
	best := floats.MinIdx(mags)
	for i, m := range mags {
		if i != best && math.Abs(m-mags[best]) <= eqAbsTol+eqRelTol*mags[best] {
			return nil, fmt.Errorf("%s: |λ%d|=%g ~ |λ%d|=%g: %w",
				methodEquilibrium, best, mags[best], i, m, ErrAmbiguousEquilibrium)
		}
	}

	var vl mat.CDense
	eig.LeftVectorsTo(&vl)
	n := len(vals)
	pi := make([]float64, n)
	for i := 0; i < n; i++ {
		pi[i] = real(vl.At(i, best))
	}
	floats.Scale(1/floats.Sum(pi), pi)

	return pi, nil
}
