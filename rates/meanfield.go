// SPDX-License-Identifier: MIT

package rates

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
	"gonum.org/v1/gonum/floats"
)

// Two averages of the coupling factor over a neighbor k's marginal μ_k:
//
//	arithmetic  A_k(y) = Σ_x' μ_k(x')·exp(2J[y,x'])    (mean of the factor)
//	geometric   E_k(y) = Σ_x' μ_k(x')·J[y,x']          (mean of the energy)
//
// Products over neighbors are taken as exp(Σ SafeLog(·)) so a vanishing
// factor floors instead of producing log(0).

// arithmeticFactor returns A_k(y) for a neighbor marginal muK.
func (m *Model) arithmeticFactor(muK []float64, y int) float64 {
	return floats.Dot(muK, m.exp2J[y])
}

func (m *Model) meanEnergy(muK []float64, y int) float64 {
	return floats.Dot(muK, m.j[y])
}

// logArithmeticProduct returns Σ_{real slots l≠skip} SafeLog(A_{nbr_l}(y));
// skip < 0 keeps every slot.
func (m *Model) logArithmeticProduct(i, skip int, mu [][]float64, y int) float64 {
	var acc float64
	for l, ok := range m.nb.NbrMask[i] {
		if !ok || l == skip {
			continue
		}
		acc += SafeLog(m.arithmeticFactor(mu[m.nb.NbrIdx[i][l]], y))
	}

	return acc
}

// sumMeanEnergy returns Σ_{real slots l≠skip} E_{nbr_l}(y).
func (m *Model) sumMeanEnergy(i, skip int, mu [][]float64, y int) float64 {
	var acc float64
	for l, ok := range m.nb.NbrMask[i] {
		if !ok || l == skip {
			continue
		}
		acc += m.meanEnergy(mu[m.nb.NbrIdx[i][l]], y)
	}

	return acc
}

// MeanFieldRateInto writes the arithmetic mean-field rates of component i,
//
//	q̄_i(x,y) = S[x,y]·exp(h[y])·∏_{real k} A_k(y),  x≠y,
//
// into dst (N×N) with a zero diagonal. No validation: i must be in range and
// mu must be K×N (see ValidateMarginals).
// Complexity: O(M·N² + N²).
func (m *Model) MeanFieldRateInto(dst *matrix.Dense, i int, mu [][]float64) {
	for y := 0; y < m.n; y++ {
		col := m.expH[y] * math.Exp(m.logArithmeticProduct(i, -1, mu, y))
		for x := 0; x < m.n; x++ {
			dst.RawRow(x)[y] = m.soff[x][y] * col
		}
	}
}

// GeometricMeanFieldRateInto writes the geometric mean-field rates of i,
//
//	q̃_i(x,y) = S[x,y]·exp(h[y] + 2Σ_{real k} E_k(y)),  x≠y,
//
// into dst (N×N) with a zero diagonal. Same preconditions as MeanFieldRateInto.
// Complexity: O(M·N² + N²).
func (m *Model) GeometricMeanFieldRateInto(dst *matrix.Dense, i int, mu [][]float64) {
	for y := 0; y < m.n; y++ {
		col := math.Exp(m.params.H[y] + 2*m.sumMeanEnergy(i, -1, mu, y))
		for x := 0; x < m.n; x++ {
			dst.RawRow(x)[y] = m.soff[x][y] * col
		}
	}
}

// MeanFieldRate returns q̄ for every component in idx (see MeanFieldRateInto).
// Padding neighbors contribute a factor of exactly 1.
// Errors: ErrComponentRange, ErrMarginalShape.
func (m *Model) MeanFieldRate(idx []int, mu [][]float64) ([]*matrix.Dense, error) {
	return m.batch(methodMeanField, idx, mu, m.MeanFieldRateInto)
}

// GeometricMeanFieldRate returns q̃ for every component in idx.
// Errors: ErrComponentRange, ErrMarginalShape.
func (m *Model) GeometricMeanFieldRate(idx []int, mu [][]float64) ([]*matrix.Dense, error) {
	return m.batch(methodGeometric, idx, mu, m.GeometricMeanFieldRateInto)
}

func (m *Model) batch(tag string, idx []int, mu [][]float64,
	fill func(*matrix.Dense, int, [][]float64)) ([]*matrix.Dense, error) {
	if err := m.ValidateMarginals(mu); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	out := make([]*matrix.Dense, len(idx))
	for a, i := range idx {
		if err := m.checkComponent(i); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		dst, err := matrix.NewDense(m.n, m.n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		fill(dst, i, mu)
		out[a] = dst
	}

	return out, nil
}
