// SPDX-License-Identifier: MIT

package exact

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/rates"
)

const (
	methodJointRate      = "JointRate"
	methodLogConditional = "LogConditional"
)

// MaxJointStates bounds N^K' for the joint oracle (K' real components).
const MaxJointStates = 1 << 12

// SeqToIndex maps a state sequence to its joint index Σ seq[j]·N^j.
func SeqToIndex(seq []int, n int) int {
	idx, stride := 0, 1
	for _, s := range seq {
		idx += s * stride
		stride *= n
	}

	return idx
}

// IndexToSeq is the inverse of SeqToIndex for sequences of length k.
func IndexToSeq(idx, n, k int) []int {
	seq := make([]int, k)
	for j := 0; j < k; j++ {
		seq[j] = idx % n
		idx /= n
	}

	return seq
}

// jointSize returns N^k or an error above MaxJointStates.
func jointSize(n, k int) (int, error) {
	size := 1
	for j := 0; j < k; j++ {
		size *= n
		if size > MaxJointStates {
			return 0, fmt.Errorf("N=%d K=%d: %w", n, k, ErrJointTooLarge)
		}
	}

	return size, nil
}

// JointRate builds the N^K' × N^K' generator of the whole CTBN over its real
// components. A transition changes exactly one coordinate i, at the rate
// model.ConditionalRate gives for it; padding components stay in state 0.
//
// Errors: ErrJointTooLarge.
// Complexity: O(N^K'·K'·N·M) time, O(N^2K') space.
func JointRate(model *rates.Model) (*matrix.Dense, error) {
	nb := model.Neighborhood()
	n, kReal := model.N(), nb.KPrepad
	size, err := jointSize(n, kReal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodJointRate, err)
	}
	q, err := matrix.NewDense(size, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodJointRate, err)
	}

	x := make([]int, nb.K)
	var (
		from, to, i, y int
		rate, rowSum   float64
		stride         int
	)
	for from = 0; from < size; from++ {
		copy(x, IndexToSeq(from, n, kReal))
		row := q.RawRow(from)
		rowSum = 0
		stride = 1
		for i = 0; i < kReal; i++ {
			for y = 0; y < n; y++ {
				if y == x[i] {
					continue
				}
				if rate, err = model.ConditionalRate(i, x, y); err != nil {
					return nil, fmt.Errorf("%s: %w", methodJointRate, err)
				}
				to = from + (y-x[i])*stride
				row[to] = rate
				rowSum += rate
			}
			stride *= n
		}
		row[from] = -rowSum
	}

	return q, nil
}

// LogConditional is the brute-force oracle log exp(Q_joint·T)[xs, ys] over the
// real components. xs and ys hold one state per padded component; padding
// entries are ignored.
//
// Errors: ErrHorizon, ErrSequenceLength, ErrStateRange, ErrJointTooLarge.
func LogConditional(model *rates.Model, xs, ys []int, horizon float64) (float64, error) {
	nb := model.Neighborhood()
	if len(xs) != nb.K || len(ys) != nb.K {
		return 0, fmt.Errorf("%s: len(xs)=%d len(ys)=%d K=%d: %w",
			methodLogConditional, len(xs), len(ys), nb.K, ErrSequenceLength)
	}
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return 0, fmt.Errorf("%s: T=%g: %w", methodLogConditional, horizon, ErrHorizon)
	}
	for i := 0; i < nb.KPrepad; i++ {
		if xs[i] < 0 || xs[i] >= model.N() || ys[i] < 0 || ys[i] >= model.N() {
			return 0, fmt.Errorf("%s: component %d: %w", methodLogConditional, i, ErrStateRange)
		}
	}
	q, err := JointRate(model)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", methodLogConditional, err)
	}
	e, err := matrix.Expm(q, horizon)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", methodLogConditional, err)
	}
	from := SeqToIndex(xs[:nb.KPrepad], model.N())
	to := SeqToIndex(ys[:nb.KPrepad], model.N())

	return rates.SafeLog(e.RawRow(from)[to]), nil
}
