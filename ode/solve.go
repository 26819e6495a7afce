// SPDX-License-Identifier: MIT

package ode

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const methodSolve = "Solve"

// Solve integrates y' = f(t, y) from (t0, y0) to t1 with the Dormand–Prince
// 5(4) pair. t1 < t0 integrates backward in time.
//
// Implementation:
//   - Stage 1: validate input and estimate the first step (unless fixed).
//   - Stage 2: take trial steps; the local error of the embedded 4th-order
//     solution is measured in the RMS norm scaled by atol + rtol·max(|y|,|y_new|).
//   - Stage 3: accept when the scaled error is ≤ 1, store the step's
//     continuous extension and adapt the step with the PI controller;
//     otherwise shrink and retry.
//
// Errors:
//   - ErrNilFunc, ErrEmptyState, ErrNonFinite (bad input or a state that
//     stays non-finite until the step underflows).
//   - ErrMaxSteps, ErrStepUnderflow.
//   - Any error returned by f, wrapped with the time it occurred.
//
// Complexity:
//   - 6 evaluations of f per trial step (FSAL), O(dim) storage per accepted step.
func Solve(f Func, t0, t1 float64, y0 []float64, opts ...Option) (*Solution, error) {
	o := gatherOptions(opts...)

	// Stage 1: validation.
	if f == nil {
		return nil, fmt.Errorf("%s: %w", methodSolve, ErrNilFunc)
	}
	dim := len(y0)
	if dim == 0 {
		return nil, fmt.Errorf("%s: %w", methodSolve, ErrEmptyState)
	}
	if !finite(t0) || !finite(t1) || !finiteSlice(y0) {
		return nil, fmt.Errorf("%s: t0=%g t1=%g: %w", methodSolve, t0, t1, ErrNonFinite)
	}
	sol := &Solution{t0: t0, t1: t1, y0: append([]float64(nil), y0...)}
	if t0 == t1 {
		sol.y1 = sol.Initial()
		return sol, nil
	}

	s := newStepper(f, dim, o)
	dir := 1.0
	if t1 < t0 {
		dir = -1
	}
	span := math.Abs(t1 - t0)
	hMax := span
	if o.maxStep > 0 {
		hMax = math.Min(hMax, o.maxStep)
	}

	t := t0
	y := append([]float64(nil), y0...)
	if err := s.eval(t, y, s.k[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", methodSolve, err)
	}
	h := o.initialStep
	if h == 0 {
		var err error
		if h, err = s.initialStep(t, y, dir, hMax); err != nil {
			return nil, fmt.Errorf("%s: %w", methodSolve, err)
		}
	}
	h = math.Min(h, hMax)

	// Stage 2/3: step loop.
	var (
		errOld       = errOldInit
		lastRejected bool
		sawNonFinite bool
		trials       int
	)
	for dir*(t1-t) > 0 {
		if trials >= o.maxSteps {
			return nil, fmt.Errorf("%s: t=%g after %d steps: %w", methodSolve, t, trials, ErrMaxSteps)
		}
		if h < 16*eps*math.Max(math.Abs(t), 1) {
			if sawNonFinite {
				return nil, fmt.Errorf("%s: t=%g: %w", methodSolve, t, ErrNonFinite)
			}
			return nil, fmt.Errorf("%s: t=%g h=%g: %w", methodSolve, t, h, ErrStepUnderflow)
		}
		trials++

		last := false
		if h >= math.Abs(t1-t) {
			h, last = math.Abs(t1-t), true
		}
		hs := dir * h
		errNorm, err := s.trial(t, hs, y)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodSolve, err)
		}

		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) || !finiteSlice(s.yNew) {
			sawNonFinite, lastRejected = true, true
			sol.Rejected++
			h *= nonFinite
			continue
		}
		fac11 := math.Pow(errNorm, expo1)
		if errNorm > 1 {
			sol.Rejected++
			lastRejected = true
			h /= math.Min(1/facMin, fac11/safety)
			continue
		}

		// Accepted.
		sol.segs = append(sol.segs, s.denseSegment(t, hs, y))
		if last {
			t = t1
		} else {
			t += hs
		}
		sol.ends = append(sol.ends, t)
		copy(y, s.yNew)
		s.k[0], s.k[6] = s.k[6], s.k[0]
		sol.Steps++
		sawNonFinite = false

		fac := fac11 / math.Pow(errOld, beta)
		fac = math.Max(1/facMax, math.Min(1/facMin, fac/safety))
		hNew := math.Min(h/fac, hMax)
		if lastRejected {
			hNew = math.Min(hNew, h)
		}
		errOld = math.Max(errNorm, errOldInit)
		lastRejected = false
		h = hNew
	}

	sol.y1 = append([]float64(nil), y...)
	sol.Evaluations = s.evals

	return sol, nil
}

const eps = 2.220446049250313e-16

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteSlice(v []float64) bool {
	for _, x := range v {
		if !finite(x) {
			return false
		}
	}

	return true
}

// stepper owns the stage buffers of one solve.
type stepper struct {
	f     Func
	dim   int
	o     Options
	k     [7][]float64
	yTmp  []float64
	yNew  []float64
	errV  []float64
	evals int
}

func newStepper(f Func, dim int, o Options) *stepper {
	s := &stepper{f: f, dim: dim, o: o,
		yTmp: make([]float64, dim),
		yNew: make([]float64, dim),
		errV: make([]float64, dim),
	}
	for i := range s.k {
		s.k[i] = make([]float64, dim)
	}

	return s
}

func (s *stepper) eval(t float64, y, dydt []float64) error {
	s.evals++
	if err := s.f(t, y, dydt); err != nil {
		return fmt.Errorf("rhs at t=%g: %w", t, err)
	}

	return nil
}

// scaledRMS returns sqrt(mean((v_i / (atol + rtol·max(|a_i|,|b_i|)))²)).
func (s *stepper) scaledRMS(v, a, b []float64) float64 {
	var acc, sk, r float64
	for i := range v {
		sk = s.o.atol + s.o.rtol*math.Max(math.Abs(a[i]), math.Abs(b[i]))
		r = v[i] / sk
		acc += r * r
	}

	return math.Sqrt(acc / float64(len(v)))
}

// initialStep picks the magnitude of the first step from the local scale of y
// and an estimate of its second derivative. s.k[0] must hold f(t, y).
func (s *stepper) initialStep(t float64, y []float64, dir, hMax float64) (float64, error) {
	d0 := s.scaledRMS(y, y, y)
	d1 := s.scaledRMS(s.k[0], y, y)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, hMax)

	floats.AddScaledTo(s.yTmp, y, dir*h0, s.k[0])
	if err := s.eval(t+dir*h0, s.yTmp, s.k[1]); err != nil {
		return 0, err
	}
	floats.SubTo(s.errV, s.k[1], s.k[0])
	d2 := s.scaledRMS(s.errV, y, y) / h0

	var h1 float64
	if math.Max(d1, d2) <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5)
	}

	return math.Min(math.Min(100*h0, h1), hMax), nil
}

// trial takes one DOPRI5 step of signed size h from (t, y), leaving the 5th
// order result in s.yNew and f(t+h, yNew) in s.k[6]. It returns the scaled
// error norm.
func (s *stepper) trial(t, h float64, y []float64) (float64, error) {
	k := &s.k
	combine := func(dst []float64, coef ...float64) {
		for i := range dst {
			acc := y[i]
			for j, c := range coef {
				if c != 0 {
					acc += h * c * k[j][i]
				}
			}
			dst[i] = acc
		}
	}

	stages := [...]struct {
		c    float64
		coef []float64
	}{
		{c2, []float64{a21}},
		{c3, []float64{a31, a32}},
		{c4, []float64{a41, a42, a43}},
		{c5, []float64{a51, a52, a53, a54}},
		{1, []float64{a61, a62, a63, a64, a65}},
	}
	for st, stage := range stages {
		combine(s.yTmp, stage.coef...)
		if err := s.eval(t+stage.c*h, s.yTmp, k[st+1]); err != nil {
			return 0, err
		}
	}
	combine(s.yNew, a71, 0, a73, a74, a75, a76)
	if err := s.eval(t+h, s.yNew, k[6]); err != nil {
		return 0, err
	}

	for i := range s.errV {
		s.errV[i] = h * (e1*k[0][i] + e3*k[2][i] + e4*k[3][i] + e5*k[4][i] + e6*k[5][i] + e7*k[6][i])
	}

	return s.scaledRMS(s.errV, y, s.yNew), nil
}

// denseSegment builds the continuous extension of the accepted step
// [t, t+h] from y to s.yNew.
func (s *stepper) denseSegment(t, h float64, y []float64) segment {
	k := &s.k
	seg := segment{t: t, h: h}
	for r := range seg.r {
		seg.r[r] = make([]float64, s.dim)
	}
	for i := 0; i < s.dim; i++ {
		ydiff := s.yNew[i] - y[i]
		bspl := h*k[0][i] - ydiff
		seg.r[0][i] = y[i]
		seg.r[1][i] = ydiff
		seg.r[2][i] = bspl
		seg.r[3][i] = ydiff - h*k[6][i] - bspl
		seg.r[4][i] = h * (d1*k[0][i] + d3*k[2][i] + d4*k[3][i] + d5*k[4][i] + d6*k[5][i] + d7*k[6][i])
	}

	return seg
}
