// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"fmt"
	"math"
)

const methodBounded = "Bounded"

// Status tells why Bounded stopped.
type Status int

const (
	// StatusConverged: the relative increase fell to the threshold.
	StatusConverged Status = iota + 1

	// StatusBudgetExhausted: the update budget ran out first.
	StatusBudgetExhausted
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusBudgetExhausted:
		return "budget_exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ScoreFunc scores a state; higher is better.
type ScoreFunc[S any] func(ctx context.Context, state S) (float64, error)

// UpdateFunc produces the next state.
type UpdateFunc[S any] func(ctx context.Context, state S) (S, error)

// Result is the outcome of Bounded.
type Result[S any] struct {
	Score   float64   // score of State
	State   S         // last state produced
	Updates int       // update steps taken
	Status  Status
	History []float64 // History[0] scores the initial state, then one per update
}

// RelativeIncrease returns (curr − prev)/|prev|, or curr − prev when prev is 0.
func RelativeIncrease(prev, curr float64) float64 {
	if prev == 0 {
		return curr - prev
	}

	return (curr - prev) / math.Abs(prev)
}

// Bounded runs the fixed-point iteration state ← update(state), scoring after
// every update, until RelativeIncrease(previous, current) ≤ the threshold
// (StatusConverged) or the budget is spent (StatusBudgetExhausted). The last
// state and its score are returned either way.
//
// ctx is checked before every update.
// Errors: ErrNilFunc, ErrNonFiniteScore, ctx.Err(), errors from score/update.
func Bounded[S any](ctx context.Context, score ScoreFunc[S], update UpdateFunc[S], start S, opts ...Option) (*Result[S], error) {
	if score == nil || update == nil {
		return nil, fmt.Errorf("%s: %w", methodBounded, ErrNilFunc)
	}
	o := gatherOptions(opts...)

	prev, err := checkedScore(ctx, score, start)
	if err != nil {
		return nil, fmt.Errorf("%s: initial: %w", methodBounded, err)
	}
	res := &Result[S]{Score: prev, State: start, History: []float64{prev}}

	for {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: after %d updates: %w", methodBounded, res.Updates, err)
		}
		next, err := update(ctx, res.State)
		if err != nil {
			return nil, fmt.Errorf("%s: update %d: %w", methodBounded, res.Updates+1, err)
		}
		curr, err := checkedScore(ctx, score, next)
		if err != nil {
			return nil, fmt.Errorf("%s: update %d: %w", methodBounded, res.Updates+1, err)
		}
		res.Updates++
		res.State, res.Score = next, curr
		res.History = append(res.History, curr)

		rel := RelativeIncrease(prev, curr)
		o.logger.DebugContext(ctx, "bounded optimisation step",
			o.name, res.Updates, "score", curr, "relative_increase", rel)

		switch {
		case rel <= o.minInc:
			res.Status = StatusConverged
			return res, nil
		case res.Updates >= o.maxUpdates:
			res.Status = StatusBudgetExhausted
			return res, nil
		}
		prev = curr
	}
}

func checkedScore[S any](ctx context.Context, score ScoreFunc[S], s S) (float64, error) {
	v, err := score(ctx, s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("score=%g: %w", v, ErrNonFiniteScore)
	}

	return v, nil
}
