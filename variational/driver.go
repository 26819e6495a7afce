// SPDX-License-Identifier: MIT

package variational

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/katalvlaran/ctbn/exact"
	"github.com/katalvlaran/ctbn/ode"
	"github.com/katalvlaran/ctbn/optimize"
	"github.com/katalvlaran/ctbn/rates"
)

const methodLogConditional = "LogConditional"

// Result is the outcome of LogConditional.
type Result struct {
	// LogBound is the final variational lower bound on log P(YS | XS, T).
	LogBound float64

	// Mu and Rho hold one trajectory per component (padding included),
	// queryable on [0,T]. Mu[i](0) is one-hot at XS[i], Rho[i](T) at YS[i].
	Mu, Rho []ode.Path

	// Sweeps is the number of completed coordinate-ascent sweeps.
	Sweeps int

	// Status tells whether the sweeps converged or ran out of budget.
	Status optimize.Status

	// Bounds[0] scores the warm-up trajectories, then one entry per sweep.
	Bounds []float64
}

// trajectories is the state threaded through the sweeps. Slices are never
// mutated once a sweep has returned them.
type trajectories struct {
	mu, rho []ode.Path
	last    int // last real component updated by the previous sweep; -1 before the first
}

// LogConditional computes a mean-field variational lower bound on the
// log-probability that the coupled system started in p.XS is found in p.YS
// after time p.T.
//
// Implementation:
//   - Stage 1: validate the problem and build the rate model.
//   - Stage 2: start every component from the exact closed-form paths of the
//     uncoupled chain, then warm up with one round that re-solves every ρ_i
//     against that set and every μ_i against the new ρ set.
//   - Stage 3: sweep. Each sweep visits the components in a fresh permutation
//     (reversed when its first real component is the one that ended the last
//     sweep) and, for each real one, replaces ρ_i and then μ_i by ODE solves against
//     the freshest trajectories of all others. The bound F is recomputed after
//     every sweep.
//   - Stage 4: stop when (F − F_prev)/|F_prev| ≤ the minimum relative
//     increase or when the sweep budget is spent.
//
// Padding components keep constant one-hot paths and never enter F. On a
// short window before T each μ_i follows ρ_i with the ratio μ_i/ρ_i held
// fixed, so the right-hand sides stay bounded up to T.
// ctx is checked between sweeps.
//
// Errors: ErrInvalidProblem (wrapping the specific cause), exact.ErrUnreachable
// when an end state cannot be reached by the uncoupled chain, ode solver
// failures, optimize.ErrNonFiniteScore, ctx.Err().
func LogConditional(ctx context.Context, p Problem, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)

	// Stage 1: validate.
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodLogConditional, err)
	}
	model, err := rates.NewModel(p.Params, p.Neighborhood)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", methodLogConditional, ErrInvalidProblem, err)
	}
	e := newEngine(model, p, o)

	// Stage 2: exact start, then the warm-up round.
	start, err := e.initial()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodLogConditional, err)
	}
	warm, err := e.warmUp(start)
	if err != nil {
		return nil, fmt.Errorf("%s: warm-up: %w", methodLogConditional, err)
	}

	// Stages 3-4.
	rng := rand.New(rand.NewSource(p.Seed))
	score := func(_ context.Context, s trajectories) (float64, error) {
		return e.solveBound(s.mu, s.rho)
	}
	update := func(ctx context.Context, s trajectories) (trajectories, error) {
		return e.sweep(ctx, rng, s)
	}
	res, err := optimize.Bounded(ctx, score, update, warm,
		optimize.WithMaxUpdates(o.maxSweeps),
		optimize.WithMinRelativeIncrease(o.minInc),
		optimize.WithLogger(o.logger),
		optimize.WithName("sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodLogConditional, err)
	}
	o.logger.InfoContext(ctx, "variational bound",
		"log_bound", res.Score, "sweeps", res.Updates, "status", res.Status.String(),
		"components", p.Neighborhood.KPrepad, "horizon", p.T)

	return &Result{
		LogBound: res.Score,
		Mu:       res.State.mu,
		Rho:      res.State.rho,
		Sweeps:   res.Updates,
		Status:   res.Status,
		Bounds:   res.History,
	}, nil
}

// initial returns the exact paths of the uncoupled chain for real components
// and constant one-hot paths for padding.
func (e *engine) initial() (trajectories, error) {
	q := e.model.SingleComponentRate()
	s := trajectories{mu: make([]ode.Path, e.k), rho: make([]ode.Path, e.k), last: -1}
	for i := 0; i < e.k; i++ {
		if !e.nb.SeqMask[i] {
			s.mu[i] = exact.NewFixed(oneHot(e.n, 0))
			s.rho[i] = exact.NewFixed(oneHot(e.n, 0))
			continue
		}
		mu, err := exact.NewMu(q, e.horizon, e.xs[i], e.ys[i])
		if err != nil {
			return s, fmt.Errorf("component %d: %w", i, err)
		}
		rho, err := exact.NewRho(q, e.horizon, e.xs[i], e.ys[i])
		if err != nil {
			return s, fmt.Errorf("component %d: %w", i, err)
		}
		s.mu[i], s.rho[i] = mu, rho
	}

	return s, nil
}

// warmUp re-solves every ρ_i against start, then every μ_i against start's μ
// and the new ρ set.
func (e *engine) warmUp(start trajectories) (trajectories, error) {
	out := trajectories{mu: slices.Clone(start.mu), rho: slices.Clone(start.rho), last: -1}
	for _, i := range e.active {
		sol, err := e.solveRho(i, start.mu, start.rho)
		if err != nil {
			return out, err
		}
		out.rho[i] = sol
	}
	for _, i := range e.active {
		sol, err := e.solveMu(i, start.mu, out.rho)
		if err != nil {
			return out, err
		}
		out.mu[i] = sol
	}

	return out, nil
}

// sweep runs one Gauss–Seidel pass over the components in a random order.
func (e *engine) sweep(ctx context.Context, rng *rand.Rand, s trajectories) (trajectories, error) {
	order, last := sweepOrder(rng, e.nb.SeqMask, s.last)
	next := trajectories{mu: slices.Clone(s.mu), rho: slices.Clone(s.rho), last: last}
	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		if !e.nb.SeqMask[i] {
			continue
		}
		rho, err := e.solveRho(i, next.mu, next.rho)
		if err != nil {
			return next, err
		}
		next.rho[i] = rho
		mu, err := e.solveMu(i, next.mu, next.rho)
		if err != nil {
			return next, err
		}
		next.mu[i] = mu
	}

	return next, nil
}

// sweepOrder draws the visiting order of one sweep over all K indices. The
// permutation is reversed when its first real component is last, the real
// component the previous sweep ended with, so with two or more real
// components none is refined twice in a row. It also returns the real
// component the new order ends with.
func sweepOrder(rng *rand.Rand, seqMask []bool, last int) ([]int, int) {
	order := rng.Perm(len(seqMask))
	first := -1
	for _, i := range order {
		if seqMask[i] {
			first = i
			break
		}
	}
	if first == last {
		slices.Reverse(order)
	}
	end := -1
	for a := len(order) - 1; a >= 0; a-- {
		if seqMask[order[a]] {
			end = order[a]
			break
		}
	}

	return order, end
}
