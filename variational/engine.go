// SPDX-License-Identifier: MIT

package variational

import (
	"math"
	"slices"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
	"github.com/katalvlaran/ctbn/ode"
	"github.com/katalvlaran/ctbn/rates"
	"gonum.org/v1/gonum/floats"
)

// engine holds everything one LogConditional call shares across its solves.
// It is read-only after newEngine.
type engine struct {
	model   *rates.Model
	nb      *neighborhood.Neighborhood
	n, k    int
	horizon float64
	tail    float64 // start of the terminal window, see muAt
	xs, ys  []int
	odeOpts []ode.Option

	active   []int   // real component indices, ascending
	backSlot [][]int // backSlot[i][j]: slot of i in the list of NbrIdx[i][j]

	// Components whose marginals each right-hand side reads.
	rhoMuDeps  [][]int // ρ_i: N(i) ∪ N(N(i))
	rhoRhoDeps [][]int // ρ_i: N(i)
	muMuDeps   [][]int // μ_i: N(i) ∪ {i}
}

func newEngine(model *rates.Model, p Problem, o Options) *engine {
	nb := model.Neighborhood()
	e := &engine{
		model:      model,
		nb:         nb,
		n:          model.N(),
		k:          nb.K,
		horizon:    p.T,
		tail:       p.T - tailWindow(p.T, o.atol),
		xs:         p.XS,
		ys:         p.YS,
		odeOpts:    o.odeOptions(),
		active:     nb.RealComponents(),
		backSlot:   make([][]int, nb.K),
		rhoMuDeps:  make([][]int, nb.K),
		rhoRhoDeps: make([][]int, nb.K),
		muMuDeps:   make([][]int, nb.K),
	}
	for _, i := range e.active {
		e.backSlot[i] = make([]int, nb.M)
		first := e.neighbors(i)
		second := slices.Clone(first)
		for j, ok := range nb.NbrMask[i] {
			if !ok {
				continue
			}
			k := nb.NbrIdx[i][j]
			e.backSlot[i][j], _ = nb.SlotOf(k, i) // Validate guarantees the contact is mutual
			second = append(second, e.neighbors(k)...)
		}
		e.rhoMuDeps[i] = unique(second)
		e.rhoRhoDeps[i] = first
		e.muMuDeps[i] = unique(append(slices.Clone(first), i))
	}

	return e
}

// tailWindow is the length of the interval before T over which μ rows are
// extrapolated from ρ. It scales with √atol so that ρ(x) at its start stays
// well above the absolute error the μ solves leave near T.
func tailWindow(horizon, atol float64) float64 {
	return horizon * math.Min(0.5, math.Sqrt(atol))
}

func (e *engine) neighbors(i int) []int {
	out := make([]int, 0, e.nb.M)
	for j, ok := range e.nb.NbrMask[i] {
		if ok {
			out = append(out, e.nb.NbrIdx[i][j])
		}
	}

	return out
}

func unique(v []int) []int {
	slices.Sort(v)

	return slices.Compact(v)
}

func oneHot(n, x int) []float64 {
	v := make([]float64, n)
	v[x] = 1

	return v
}

// frame is the scratch space of one solve: a K×N snapshot of μ and ρ at the
// current time plus N×N work matrices. Rows outside a right-hand side's
// dependency lists are never read and keep stale values.
type frame struct {
	mu, rho [][]float64
	qbar    *matrix.Dense
	qtil    *matrix.Dense
	qtilK   *matrix.Dense
	gamma   [][]float64
	psi     []float64
	escape  []float64
	flow    []float64

	// tailRatio[k] caches μ_k/ρ_k at the window start; a frame serves one
	// solve, during which the paths it reads never change.
	tailRatio [][]float64
}

func (e *engine) newFrame() *frame {
	f := &frame{
		mu:        make([][]float64, e.k),
		rho:       make([][]float64, e.k),
		gamma:     make([][]float64, e.n),
		psi:       make([]float64, e.n),
		escape:    make([]float64, e.n),
		flow:      make([]float64, e.n),
		tailRatio: make([][]float64, e.k),
	}
	for i := range f.mu {
		f.mu[i] = make([]float64, e.n)
		f.rho[i] = make([]float64, e.n)
	}
	for x := range f.gamma {
		f.gamma[x] = make([]float64, e.n)
	}
	f.qbar, _ = matrix.NewDense(e.n, e.n)
	f.qtil, _ = matrix.NewDense(e.n, e.n)
	f.qtilK, _ = matrix.NewDense(e.n, e.n)

	return f
}

// load fills the μ rows of muIdx and the ρ rows of rhoIdx at time t.
func (e *engine) load(f *frame, t float64, mu, rho []ode.Path, muIdx, rhoIdx []int) {
	for _, k := range muIdx {
		f.mu[k] = e.muAt(f, t, k, mu[k], rho[k])
	}
	for _, k := range rhoIdx {
		f.rho[k] = rho[k].Evaluate(t)
	}
}

// muAt evaluates μ_k at t. Near T every ρ_k(x) with x ≠ YS[k] vanishes
// linearly while a solved μ_k(x) only reaches zero to within the solver
// tolerance, so μ(x)/ρ(x) and with it γ would grow like 1/(T−t). On the
// terminal window [T−w, T) μ_k is therefore taken as ρ_k weighted by the
// forward factor μ_k/ρ_k frozen at T−w and renormalised, which keeps γ
// bounded and meets one-hot(YS[k]) at T. At t ≥ T, μ_k = ρ_k.
func (e *engine) muAt(f *frame, t float64, k int, mu, rho ode.Path) []float64 {
	switch {
	case t >= e.horizon:
		return rho.Evaluate(t)
	case t < e.tail:
		return mu.Evaluate(t)
	}
	r := f.tailRatio[k]
	if r == nil {
		r = forwardFactor(mu.Evaluate(e.tail), rho.Evaluate(e.tail))
		f.tailRatio[k] = r
	}

	return extrapolate(r, rho.Evaluate(t))
}

// forwardFactor returns μ(x)/ρ(x), zero where either is not positive.
func forwardFactor(mu, rho []float64) []float64 {
	out := make([]float64, len(mu))
	for x := range out {
		if mu[x] > 0 && rho[x] > 0 {
			out[x] = mu[x] / rho[x]
		}
	}

	return out
}

// extrapolate returns the normalised product ratio·max(ρ, 0), or rho itself
// when that product vanishes.
func extrapolate(ratio, rho []float64) []float64 {
	out := make([]float64, len(rho))
	for x := range out {
		out[x] = ratio[x] * math.Max(rho[x], 0)
	}
	z := floats.Sum(out)
	if z <= 0 {
		return rho
	}
	floats.Scale(1/z, out)

	return out
}

// tailPath is a μ trajectory solved on [0, T−w] and extrapolated from its
// ρ partner on the terminal window, the same way muAt treats any μ path.
type tailPath struct {
	head  ode.Path
	rho   ode.Path
	tail  float64
	ratio []float64
}

func newTailPath(head *ode.Solution, rho ode.Path, tail float64) *tailPath {
	return &tailPath{head: head, rho: rho, tail: tail, ratio: forwardFactor(head.Final(), rho.Evaluate(tail))}
}

// Evaluate implements ode.Path.
func (p *tailPath) Evaluate(t float64) []float64 {
	if t <= p.tail {
		return p.head.Evaluate(t)
	}

	return extrapolate(p.ratio, p.rho.Evaluate(t))
}
