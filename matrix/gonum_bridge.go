// SPDX-License-Identifier: MIT

// Package matrix: bridge to gonum for the heavy dense routines we do not
// reimplement (Padé matrix exponential, general non-symmetric eigensystems).
//
// The bridge copies in both directions; gonum never aliases a Dense buffer, so
// a caller can keep mutating its matrix while a converted copy is in use.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	opToGonum   = "ToGonum"
	opFromGonum = "FromGonum"
	opExpm      = "Expm"
)

// ToGonum copies m into a new *mat.Dense.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	buf := make([]float64, len(d.data))
	copy(buf, d.data)

	return mat.NewDense(d.r, d.c, buf), nil
}

// FromGonum copies a gonum matrix into a new *Dense.
// Errors: ErrInvalidDimensions (empty source), ErrNaNInf.
// Complexity: O(r*c).
func FromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opFromGonum, err)
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			v = g.At(i, j)
			if isNonFinite(v) {
				return nil, matrixErrorf(opFromGonum, denseErrorf(ctxAt, i, j, ErrNaNInf))
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// Expm returns exp(t·q) for a square q.
// Implementation:
//   - Stage 1: validate square and finite.
//   - Stage 2: scale into a gonum matrix and call (*mat.Dense).Exp (Padé with
//     scaling and squaring).
//   - Stage 3: copy back, rejecting overflow as ErrNaNInf.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf.
// Complexity: O(n³ log‖tq‖).
func Expm(q Matrix, t float64) (*Dense, error) {
	if err := ValidateSquareNonNil(q); err != nil {
		return nil, matrixErrorf(opExpm, err)
	}
	if isNonFinite(t) {
		return nil, matrixErrorf(opExpm, fmt.Errorf("t=%g: %w", t, ErrNaNInf))
	}
	g, err := ToGonum(q)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}
	g.Scale(t, g)
	var e mat.Dense
	e.Exp(g)

	out, err := FromGonum(&e)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	return out, nil
}
