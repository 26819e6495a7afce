// SPDX-License-Identifier: MIT

package potts

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/rates"
	"gonum.org/v1/gonum/floats"
)

const (
	methodLogMarg    = "LogMarginalUnnormalized"
	methodPseudo     = "PseudoLogMarginal"
	methodMeanFieldZ = "MeanFieldLogZ"
)

// DefaultRegularization is the L2 weight of Regularizer.
const DefaultRegularization = 1e-4

func checkSequence(m *rates.Model, xs []int) error {
	nb := m.Neighborhood()
	if len(xs) != nb.K {
		return fmt.Errorf("len=%d K=%d: %w", len(xs), nb.K, ErrSequenceLength)
	}
	for i, ok := range nb.SeqMask {
		if ok && (xs[i] < 0 || xs[i] >= m.N()) {
			return fmt.Errorf("xs[%d]=%d: %w", i, xs[i], ErrStateRange)
		}
	}

	return nil
}

// LogMarginalUnnormalized is the Potts energy of a padded sequence,
//
//	Σ_{real i} (h[x_i] + Σ_{real slots j} J[x_i, x_{nbr_j}]),
//
// which counts every contact from both ends. It is the log of the stationary
// weight of the CTBN, whose jump rates carry 2J.
// Errors: ErrSequenceLength, ErrStateRange.
// Complexity: O(K·M).
func LogMarginalUnnormalized(m *rates.Model, xs []int) (float64, error) {
	if err := checkSequence(m, xs); err != nil {
		return 0, fmt.Errorf("%s: %w", methodLogMarg, err)
	}

	return energy(m, xs), nil
}

func energy(m *rates.Model, xs []int) float64 {
	nb := m.Neighborhood()
	p := m.Params()
	var e float64
	for i, isReal := range nb.SeqMask {
		if !isReal {
			continue
		}
		row := p.J.RawRow(xs[i])
		e += p.H[xs[i]]
		for j, ok := range nb.NbrMask[i] {
			if ok {
				e += row[xs[nb.NbrIdx[i][j]]]
			}
		}
	}

	return e
}

// PseudoLogMarginal is the log pseudo-likelihood
// Σ_{real i} log P(x_i | x_{nbr(i)}) under the Potts distribution, with
// P(y | x_nbr) ∝ exp(h[y] + 2Σ_j J[x_{nbr_j}, y]) (each contact appears twice
// in the energy).
// Errors: ErrSequenceLength, ErrStateRange.
// Complexity: O(K·M·N).
func PseudoLogMarginal(m *rates.Model, xs []int) (float64, error) {
	if err := checkSequence(m, xs); err != nil {
		return 0, fmt.Errorf("%s: %w", methodPseudo, err)
	}
	nb := m.Neighborhood()
	p := m.Params()
	n := m.N()
	e := make([]float64, n)
	var total float64
	for i, isReal := range nb.SeqMask {
		if !isReal {
			continue
		}
		copy(e, p.H)
		for j, ok := range nb.NbrMask[i] {
			if ok {
				floats.AddScaled(e, 2, p.J.RawRow(xs[nb.NbrIdx[i][j]]))
			}
		}
		total += e[xs[i]] - floats.LogSumExp(e)
	}

	return total, nil
}

// MeanFieldLogZ is the mean-field lower bound on log Z for independent
// per-component distributions θ (K×N; padding rows are ignored):
//
//	Σ_i θ_i·h + Σ_i Σ_j θ_iᵀ J θ_{nbr_j} − Σ_i θ_i·log θ_i.
//
// Errors: ErrSequenceLength.
// Complexity: O(K·M·N²).
func MeanFieldLogZ(m *rates.Model, theta [][]float64) (float64, error) {
	if err := m.ValidateMarginals(theta); err != nil {
		return 0, fmt.Errorf("%s: %w: %w", methodMeanFieldZ, ErrSequenceLength, err)
	}

	return meanFieldLogZ(m, theta), nil
}

func meanFieldLogZ(m *rates.Model, theta [][]float64) float64 {
	nb := m.Neighborhood()
	p := m.Params()
	n := m.N()
	jt := make([]float64, n)
	var e, h float64
	for i, isReal := range nb.SeqMask {
		if !isReal {
			continue
		}
		e += floats.Dot(theta[i], p.H)
		for j, ok := range nb.NbrMask[i] {
			if !ok {
				continue
			}
			tk := theta[nb.NbrIdx[i][j]]
			for x := 0; x < n; x++ {
				jt[x] = floats.Dot(p.J.RawRow(x), tk)
			}
			e += floats.Dot(theta[i], jt)
		}
		for _, v := range theta[i] {
			if v > 0 {
				h -= v * math.Log(v)
			}
		}
	}

	return e + h
}

// Regularizer is the weak L2 penalty α(ΣJ² + Σh²) on raw parameters.
func Regularizer(p rates.Params, alpha float64) float64 {
	var sum float64
	if p.J != nil {
		p.J.Do(func(_, _ int, v float64) bool {
			sum += v * v
			return true
		})
	}
	sum += floats.Dot(p.H, p.H)

	return alpha * sum
}
