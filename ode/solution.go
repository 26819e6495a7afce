// SPDX-License-Identifier: MIT

package ode

import "sort"

// segment is one accepted step [t, t+h] with its dense-output coefficients.
type segment struct {
	t, h float64
	r    [5][]float64
}

// Solution is the dense output of one Solve call. It implements Path:
// queries between steps use the 4th-order continuous extension, queries
// outside [t0, t1] clamp to the nearest end point.
// A Solution is immutable and safe for concurrent readers.
type Solution struct {
	t0, t1 float64
	y0, y1 []float64
	segs   []segment
	ends   []float64 // ends[k] = segs[k].t + segs[k].h

	// Steps, Rejected and Evaluations report the work done by the solve.
	Steps       int
	Rejected    int
	Evaluations int
}

var _ Path = (*Solution)(nil)

// Span returns the integration interval as given to Solve (t1 may be < t0).
func (s *Solution) Span() (t0, t1 float64) { return s.t0, s.t1 }

// Final returns a copy of y(t1).
func (s *Solution) Final() []float64 { return append([]float64(nil), s.y1...) }

// Initial returns a copy of y(t0).
func (s *Solution) Initial() []float64 { return append([]float64(nil), s.y0...) }

// Evaluate returns y(t).
// Complexity: O(log steps + dim).
func (s *Solution) Evaluate(t float64) []float64 {
	forward := s.t1 >= s.t0
	switch {
	case len(s.segs) == 0:
		return s.Initial()
	case forward && t <= s.t0, !forward && t >= s.t0:
		return s.Initial()
	case forward && t >= s.t1, !forward && t <= s.t1:
		return s.Final()
	}

	k := sort.Search(len(s.ends), func(k int) bool {
		if forward {
			return s.ends[k] >= t
		}

		return s.ends[k] <= t
	})
	if k == len(s.segs) {
		k--
	}
	seg := &s.segs[k]
	theta := (t - seg.t) / seg.h
	theta1 := 1 - theta
	out := make([]float64, len(s.y0))
	for i := range out {
		out[i] = seg.r[0][i] + theta*(seg.r[1][i]+theta1*(seg.r[2][i]+theta*(seg.r[3][i]+theta1*seg.r[4][i])))
	}

	return out
}
