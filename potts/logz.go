// SPDX-License-Identifier: MIT

package potts

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/optimize"
	"github.com/katalvlaran/ctbn/rates"
	"gonum.org/v1/gonum/floats"
)

const (
	methodVariationalZ = "VariationalLogZ"
	methodExactZ       = "ExactLogZ"
	methodExactMarg    = "ExactLogMarginal"
	methodVarMarg      = "VariationalLogMarginal"
)

// Defaults of VariationalLogZ: a short fixed-point run is enough for the
// weakly coupled models this is used on.
const (
	DefaultMeanFieldUpdates     = 4
	DefaultMeanFieldMinIncrease = 1e-3
)

// MaxExactStates bounds N^K' for ExactLogZ.
const MaxExactStates = 1 << 20

// softmaxInto writes softmax(e) into dst.
func softmaxInto(dst, e []float64) {
	lse := floats.LogSumExp(e)
	for x, v := range e {
		dst[x] = math.Exp(v - lse)
	}
}

// VariationalLogZ maximises MeanFieldLogZ by the fixed-point update
// θ_i ← softmax(h + 2Σ_j J θ_{nbr_j}), applied to all components at once from
// θ_i = softmax(h). The result carries θ, the bound and the stopping status.
//
// opts override the defaults (DefaultMeanFieldUpdates updates,
// DefaultMeanFieldMinIncrease threshold).
func VariationalLogZ(ctx context.Context, m *rates.Model, opts ...optimize.Option) (*optimize.Result[[][]float64], error) {
	nb := m.Neighborhood()
	p := m.Params()
	n := m.N()

	start := make([][]float64, nb.K)
	for i := range start {
		start[i] = make([]float64, n)
		softmaxInto(start[i], p.H)
	}

	score := func(_ context.Context, theta [][]float64) (float64, error) {
		return meanFieldLogZ(m, theta), nil
	}
	update := func(_ context.Context, theta [][]float64) ([][]float64, error) {
		next := make([][]float64, nb.K)
		e := make([]float64, n)
		for i := range next {
			next[i] = make([]float64, n)
			copy(e, p.H)
			for j, ok := range nb.NbrMask[i] {
				if !ok {
					continue
				}
				tk := theta[nb.NbrIdx[i][j]]
				for x := 0; x < n; x++ {
					e[x] += 2 * floats.Dot(p.J.RawRow(x), tk)
				}
			}
			softmaxInto(next[i], e)
		}

		return next, nil
	}

	all := append([]optimize.Option{
		optimize.WithMaxUpdates(DefaultMeanFieldUpdates),
		optimize.WithMinRelativeIncrease(DefaultMeanFieldMinIncrease),
		optimize.WithName("mean_field_update"),
	}, opts...)
	res, err := optimize.Bounded(ctx, score, update, start, all...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodVariationalZ, err)
	}

	return res, nil
}

// ExactLogZ sums exp(LogMarginalUnnormalized) over every assignment of the
// real components (padding held at 0).
// Errors: ErrTooManyStates.
// Complexity: O(N^K'·K·M).
func ExactLogZ(m *rates.Model) (float64, error) {
	nb := m.Neighborhood()
	n, kReal := m.N(), nb.KPrepad
	size := 1
	for j := 0; j < kReal; j++ {
		size *= n
		if size > MaxExactStates {
			return 0, fmt.Errorf("%s: N=%d K=%d: %w", methodExactZ, n, kReal, ErrTooManyStates)
		}
	}
	xs := make([]int, nb.K)
	es := make([]float64, size)
	for idx := 0; idx < size; idx++ {
		rest := idx
		for j := 0; j < kReal; j++ {
			xs[j] = rest % n
			rest /= n
		}
		es[idx] = energy(m, xs)
	}

	return floats.LogSumExp(es), nil
}

// ExactLogMarginal is log P(xs) under the stationary Potts distribution.
// logZ may be nil, in which case ExactLogZ is computed.
func ExactLogMarginal(m *rates.Model, xs []int, logZ *float64) (float64, error) {
	lp, err := LogMarginalUnnormalized(m, xs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", methodExactMarg, err)
	}
	if logZ == nil {
		z, err := ExactLogZ(m)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", methodExactMarg, err)
		}
		logZ = &z
	}

	return lp - *logZ, nil
}

// VariationalLogMarginal is LogMarginalUnnormalized − VariationalLogZ: an
// upper bound on log P(xs) since the mean-field log Z is a lower bound.
// logZ may be nil, in which case VariationalLogZ runs with opts.
func VariationalLogMarginal(ctx context.Context, m *rates.Model, xs []int, logZ *float64, opts ...optimize.Option) (float64, error) {
	lp, err := LogMarginalUnnormalized(m, xs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", methodVarMarg, err)
	}
	if logZ == nil {
		res, err := VariationalLogZ(ctx, m, opts...)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", methodVarMarg, err)
		}
		logZ = &res.Score
	}

	return lp - *logZ, nil
}
