// SPDX-License-Identifier: MIT

package exact

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/ode"
)

const (
	methodNewRho = "NewRho"
	methodNewMu  = "NewMu"
)

// Rho is the closed-form backward potential of a single chain with generator
// Q conditioned to end in y at T:
//
//	ρ(t) = min(exp(Q(T−t))[:, y], 1).
type Rho struct {
	q       *matrix.Dense
	n       int
	horizon float64
	x, y    int
	pXY     float64 // exp(QT)[x,y]
}

// Mu is the closed-form forward marginal of a single chain started in x and
// conditioned to end in y at T:
//
//	μ(t) ∝ exp(Qt)[x, :] ⊙ ρ(t) / exp(QT)[x,y], normalised to sum 1.
type Mu struct {
	Rho
}

var (
	_ ode.Path = (*Rho)(nil)
	_ ode.Path = (*Mu)(nil)
)

// NewRho validates q as a generator and caches exp(QT)[x,y].
// Errors: matrix validation errors, ErrHorizon, ErrStateRange, ErrUnreachable.
// Complexity: one N×N matrix exponential.
func NewRho(q matrix.Matrix, horizon float64, x, y int) (*Rho, error) {
	r, err := newRho(q, horizon, x, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodNewRho, err)
	}

	return r, nil
}

// NewMu is NewRho for the forward marginal.
func NewMu(q matrix.Matrix, horizon float64, x, y int) (*Mu, error) {
	r, err := newRho(q, horizon, x, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodNewMu, err)
	}

	return &Mu{Rho: *r}, nil
}

func newRho(q matrix.Matrix, horizon float64, x, y int) (*Rho, error) {
	if err := matrix.ValidateGenerator(q); err != nil {
		return nil, err
	}
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return nil, fmt.Errorf("T=%g: %w", horizon, ErrHorizon)
	}
	n := q.Rows()
	if x < 0 || x >= n || y < 0 || y >= n {
		return nil, fmt.Errorf("x=%d y=%d N=%d: %w", x, y, n, ErrStateRange)
	}
	qd, err := matrix.Scale(q, 1) // private copy
	if err != nil {
		return nil, err
	}
	e, err := matrix.Expm(qd, horizon)
	if err != nil {
		return nil, err
	}
	pXY := e.RawRow(x)[y]
	if !(pXY > 0) {
		return nil, fmt.Errorf("exp(QT)[%d,%d]=%g: %w", x, y, pXY, ErrUnreachable)
	}

	return &Rho{q: qd, n: n, horizon: horizon, x: x, y: y, pXY: pXY}, nil
}

// TransitionProbability returns exp(QT)[x,y].
func (r *Rho) TransitionProbability() float64 { return r.pXY }

func (r *Rho) clamp(t float64) float64 { return math.Min(math.Max(t, 0), r.horizon) }

// column returns exp(Q(T−t))·e_y clamped to ≤ 1. A failed exponential
// (overflow) yields NaN entries so downstream solvers fail explicitly.
func (r *Rho) column(t float64) []float64 {
	e, err := matrix.Expm(r.q, r.horizon-t)
	if err != nil {
		return nanVector(r.n)
	}
	out, err := matrix.MatVec(e, unitVector(r.n, r.y))
	if err != nil {
		return nanVector(r.n)
	}
	for i, v := range out {
		out[i] = math.Min(v, 1)
	}

	return out
}

func unitVector(n, k int) []float64 {
	v := make([]float64, n)
	v[k] = 1

	return v
}

func nanVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}

	return v
}

// Evaluate returns ρ(t); t is clamped to [0, T].
func (r *Rho) Evaluate(t float64) []float64 { return r.column(r.clamp(t)) }

// Evaluate returns μ(t); t is clamped to [0, T].
func (m *Mu) Evaluate(t float64) []float64 {
	t = m.clamp(t)
	rho := m.column(t)
	e, err := matrix.Expm(m.q, t)
	if err != nil {
		return nanVector(m.n)
	}
	row, err := matrix.VecMat(unitVector(m.n, m.x), e)
	if err != nil {
		return nanVector(m.n)
	}
	var sum float64
	for i := range rho {
		rho[i] *= row[i] / m.pXY
		sum += rho[i]
	}
	if sum > 0 {
		for i := range rho {
			rho[i] /= sum
		}
	}

	return rho
}

// Fixed is a constant path.
type Fixed struct {
	val []float64
}

var _ ode.Path = (*Fixed)(nil)

// NewFixed returns a path that always evaluates to a copy of val.
func NewFixed(val []float64) *Fixed { return &Fixed{val: append([]float64(nil), val...)} }

// NewZero returns the constant zero path of dimension n.
func NewZero(n int) *Fixed { return &Fixed{val: make([]float64, n)} }

// Evaluate returns the constant value.
func (f *Fixed) Evaluate(float64) []float64 { return append([]float64(nil), f.val...) }
