// SPDX-License-Identifier: MIT

package variational

import (
	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/rates"
)

// gammaInto writes the expected transition intensities of one component,
//
//	γ(x,y) = μ(x)·q̃(x,y)·ρ(y)/ρ(x),  x≠y,  γ(x,x) = 0,
//
// with the division floored by rates.SafeRecip.
func gammaInto(dst [][]float64, qtil *matrix.Dense, mu, rho []float64) {
	for x, row := range dst {
		q := qtil.RawRow(x)
		inv := rates.SafeRecip(rho[x])
		for y := range row {
			if x == y {
				row[y] = 0
				continue
			}
			row[y] = mu[x] * q[y] * rho[y] * inv
		}
	}
}

// psiInto writes ψ_i(x): the change of the neighbors' energy and entropy
// terms when component i is pinned to x. For every real slot j of i with
// k = NbrIdx[i][j] and s the slot of i in k's list,
//
//	ψ_i(x) += −Σ_y μ_k(y)·Σ_{z≠y} q̄_k^s(x; y→z) + Σ_{y≠z} γ_k(y,z)·log q̃_k^s(x; y→z).
//
// Reads μ of N(i) ∪ N(N(i)) and ρ of N(i) from f.
// Complexity: O(M·(M·N + N²)).
func (e *engine) psiInto(f *frame, i int) {
	clear(f.psi)
	for j, ok := range e.nb.NbrMask[i] {
		if !ok {
			continue
		}
		k, s := e.nb.NbrIdx[i][j], e.backSlot[i][j]
		e.model.GeometricMeanFieldRateInto(f.qtilK, k, f.mu)
		gammaInto(f.gamma, f.qtilK, f.mu[k], f.rho[k])
		e.model.ConditionalEscapeInto(f.escape, k, s, f.mu, f.mu[k])
		e.model.ConditionalLogFlowInto(f.flow, k, s, f.mu, f.gamma)
		for x := range f.psi {
			f.psi[x] += f.flow[x] - f.escape[x]
		}
	}
}

// rhoDeriv is dρ_i/dt with ρ_i in f.rho[i]:
//
//	dρ_i(x) = −ρ_i(x)(q̄_i(x,x) + ψ_i(x)) − Σ_{y≠x} q̃_i(x,y)ρ_i(y),
//
// where q̄_i(x,x) = −Σ_{y≠x} q̄_i(x,y).
func (e *engine) rhoDeriv(f *frame, i int, dst []float64) {
	e.psiInto(f, i)
	e.model.MeanFieldRateInto(f.qbar, i, f.mu)
	e.model.GeometricMeanFieldRateInto(f.qtil, i, f.mu)
	rho := f.rho[i]
	for x := 0; x < e.n; x++ {
		qb, qt := f.qbar.RawRow(x), f.qtil.RawRow(x)
		var diag, coupling float64
		for y := 0; y < e.n; y++ {
			if y == x {
				continue
			}
			diag -= qb[y]
			coupling += qt[y] * rho[y]
		}
		dst[x] = -rho[x]*(diag+f.psi[x]) - coupling
	}
}

// muDeriv is dμ_i/dt = Σ_y γ_i(y,x) − Σ_y γ_i(x,y) with μ_i in f.mu[i].
func (e *engine) muDeriv(f *frame, i int, dst []float64) {
	e.model.GeometricMeanFieldRateInto(f.qtil, i, f.mu)
	gammaInto(f.gamma, f.qtil, f.mu[i], f.rho[i])
	clear(dst)
	for x := 0; x < e.n; x++ {
		for y := 0; y < e.n; y++ {
			dst[y] += f.gamma[x][y]
			dst[x] -= f.gamma[x][y]
		}
	}
}

// boundDeriv is the integrand of the variational bound, summed over real
// components:
//
//	−Σ_x μ_i(x)Σ_{y≠x} q̄_i(x,y) + Σ_{x≠y} γ_i(x,y)(log q̃_i(x,y) + 1 + log μ_i(x) − log γ_i(x,y)).
//
// Padding components contribute nothing.
func (e *engine) boundDeriv(f *frame) float64 {
	var acc float64
	for _, i := range e.active {
		e.model.MeanFieldRateInto(f.qbar, i, f.mu)
		e.model.GeometricMeanFieldRateInto(f.qtil, i, f.mu)
		gammaInto(f.gamma, f.qtil, f.mu[i], f.rho[i])
		mu := f.mu[i]
		for x := 0; x < e.n; x++ {
			qb, qt := f.qbar.RawRow(x), f.qtil.RawRow(x)
			logMu := rates.SafeLog(mu[x])
			for y := 0; y < e.n; y++ {
				if y == x {
					continue
				}
				g := f.gamma[x][y]
				acc += -mu[x]*qb[y] + g*(rates.SafeLog(qt[y])+1+logMu-rates.SafeLog(g))
			}
		}
	}

	return acc
}
