// SPDX-License-Identifier: MIT

package rates

import (
	"fmt"
	"math"
)

const (
	methodMeanFieldCond = "MeanFieldRateConditional"
	methodGeometricCond = "GeometricMeanFieldRateConditional"
	methodSlotAt        = "SlotRates.At"
	methodCondSlot      = "CondRates.Slot"
)

// SlotRates holds the rates x→y of one component conditioned on the neighbor
// in one slot being in state xj: an N×N×N tensor indexed (xj, x, y).
// Only x≠y entries are rates; At rejects diagonal queries.
type SlotRates struct {
	n    int
	data []float64
}

func newSlotRates(n int) *SlotRates {
	return &SlotRates{n: n, data: make([]float64, n*n*n)}
}

// N returns the alphabet size.
func (s *SlotRates) N() int { return s.n }

// At returns the rate x→y given neighbor state xj.
// Errors: ErrStateRange, ErrDiagonalRate.
func (s *SlotRates) At(xj, x, y int) (float64, error) {
	if xj < 0 || xj >= s.n || x < 0 || x >= s.n || y < 0 || y >= s.n {
		return 0, fmt.Errorf("%s(%d,%d,%d): %w", methodSlotAt, xj, x, y, ErrStateRange)
	}
	if x == y {
		return 0, fmt.Errorf("%s(%d,%d,%d): %w", methodSlotAt, xj, x, y, ErrDiagonalRate)
	}

	return s.data[(xj*s.n+x)*s.n+y], nil
}

func (s *SlotRates) set(xj, x, y int, v float64) { s.data[(xj*s.n+x)*s.n+y] = v }

// CondRates is the per-slot family of conditional rates of one component:
// the (slot, neighbor state, x, y) tensor. Padding slots hold nothing.
type CondRates struct {
	slots []*SlotRates
}

// M returns the number of slots.
func (c *CondRates) M() int { return len(c.slots) }

// Slot returns the conditional rates for slot j.
// Errors: ErrPaddingSlot, ErrComponentRange (j out of range).
func (c *CondRates) Slot(j int) (*SlotRates, error) {
	if j < 0 || j >= len(c.slots) {
		return nil, fmt.Errorf("%s(%d): %w", methodCondSlot, j, ErrComponentRange)
	}
	if c.slots[j] == nil {
		return nil, fmt.Errorf("%s(%d): %w", methodCondSlot, j, ErrPaddingSlot)
	}

	return c.slots[j], nil
}

// At returns the rate x→y of the component given the neighbor in slot j is in
// state xj.
// Errors: those of Slot and SlotRates.At.
func (c *CondRates) At(j, xj, x, y int) (float64, error) {
	s, err := c.Slot(j)
	if err != nil {
		return 0, err
	}

	return s.At(xj, x, y)
}

func (m *Model) checkSlot(tag string, i, slot int, mu [][]float64) error {
	if err := m.checkComponent(i); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	if err := m.ValidateMarginals(mu); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	if slot < 0 || slot >= m.nb.M || !m.nb.NbrMask[i][slot] {
		return fmt.Errorf("%s: component %d slot %d: %w", tag, i, slot, ErrPaddingSlot)
	}

	return nil
}

// MeanFieldRateConditionalSlot returns the arithmetic mean-field rates of i
// with the neighbor in slot held at state xj:
//
//	S[x,y]·exp(h[y])·exp(2J[y,xj])·∏_{real k≠slot} A_k(y),  x≠y.
//
// Errors: ErrComponentRange, ErrMarginalShape, ErrPaddingSlot.
// Complexity: O(M·N² + N³).
func (m *Model) MeanFieldRateConditionalSlot(i, slot int, mu [][]float64) (*SlotRates, error) {
	if err := m.checkSlot(methodMeanFieldCond, i, slot, mu); err != nil {
		return nil, err
	}
	out := newSlotRates(m.n)
	var xj, x, y int
	for y = 0; y < m.n; y++ {
		rest := m.expH[y] * math.Exp(m.logArithmeticProduct(i, slot, mu, y))
		for xj = 0; xj < m.n; xj++ {
			col := rest * m.exp2J[y][xj]
			for x = 0; x < m.n; x++ {
				out.set(xj, x, y, m.soff[x][y]*col)
			}
		}
	}

	return out, nil
}

// GeometricMeanFieldRateConditionalSlot returns the geometric mean-field rates
// of i with the neighbor in slot held at state xj:
//
//	S[x,y]·exp(h[y] + 2J[y,xj] + 2Σ_{real k≠slot} E_k(y)),  x≠y.
//
// Errors: ErrComponentRange, ErrMarginalShape, ErrPaddingSlot.
// Complexity: O(M·N² + N³).
func (m *Model) GeometricMeanFieldRateConditionalSlot(i, slot int, mu [][]float64) (*SlotRates, error) {
	if err := m.checkSlot(methodGeometricCond, i, slot, mu); err != nil {
		return nil, err
	}
	out := newSlotRates(m.n)
	var xj, x, y int
	for y = 0; y < m.n; y++ {
		rest := m.params.H[y] + 2*m.sumMeanEnergy(i, slot, mu, y)
		for xj = 0; xj < m.n; xj++ {
			col := math.Exp(rest + 2*m.j[y][xj])
			for x = 0; x < m.n; x++ {
				out.set(xj, x, y, m.soff[x][y]*col)
			}
		}
	}

	return out, nil
}

// MeanFieldRateConditional returns the arithmetic conditional rates of i for
// every real slot.
// Errors: ErrComponentRange, ErrMarginalShape.
func (m *Model) MeanFieldRateConditional(i int, mu [][]float64) (*CondRates, error) {
	return m.conditional(methodMeanFieldCond, i, mu, m.MeanFieldRateConditionalSlot)
}

// GeometricMeanFieldRateConditional returns the geometric conditional rates of
// i for every real slot.
// Errors: ErrComponentRange, ErrMarginalShape.
func (m *Model) GeometricMeanFieldRateConditional(i int, mu [][]float64) (*CondRates, error) {
	return m.conditional(methodGeometricCond, i, mu, m.GeometricMeanFieldRateConditionalSlot)
}

func (m *Model) conditional(tag string, i int, mu [][]float64,
	slotFn func(int, int, [][]float64) (*SlotRates, error)) (*CondRates, error) {
	if err := m.checkComponent(i); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	out := &CondRates{slots: make([]*SlotRates, m.nb.M)}
	for j, ok := range m.nb.NbrMask[i] {
		if !ok {
			continue
		}
		s, err := slotFn(i, j, mu)
		if err != nil {
			return nil, err
		}
		out.slots[j] = s
	}

	return out, nil
}

// ConditionalEscapeInto writes, for every state xj of the neighbor in slot,
//
//	dst[xj] = Σ_y w[y]·Σ_{z≠y} q̄_i(xj; y→z),
//
// the w-weighted escape rate of i under the arithmetic conditional rates of
// MeanFieldRateConditionalSlot. The tensor factors as S[y,z]·c(z)·exp(2J[z,xj]),
// so it is never materialised. No validation: same preconditions as
// MeanFieldRateInto, slot must hold a real neighbor, len(dst) == len(w) == N.
// Complexity: O(M·N + N²).
func (m *Model) ConditionalEscapeInto(dst []float64, i, slot int, mu [][]float64, w []float64) {
	clear(dst)
	var y, z int
	for z = 0; z < m.n; z++ {
		var in float64
		for y = 0; y < m.n; y++ {
			in += w[y] * m.soff[y][z]
		}
		if in == 0 {
			continue
		}
		col := in * m.expH[z] * math.Exp(m.logArithmeticProduct(i, slot, mu, z))
		for xj := range dst {
			dst[xj] += col * m.exp2J[z][xj]
		}
	}
}

// ConditionalLogFlowInto writes, for every state xj of the neighbor in slot,
//
//	dst[xj] = Σ_{y≠z} g[y][z]·log q̃_i(xj; y→z),
//
// the g-weighted log rates of i under the geometric conditional rates of
// GeometricMeanFieldRateConditionalSlot. Transitions with S[y,z] ≤ 0 are
// skipped. Same preconditions as ConditionalEscapeInto, g is N×N.
// Complexity: O(M·N + N²).
func (m *Model) ConditionalLogFlowInto(dst []float64, i, slot int, mu [][]float64, g [][]float64) {
	clear(dst)
	var (
		y, z int
		base float64
	)
	for z = 0; z < m.n; z++ {
		rest := m.params.H[z] + 2*m.sumMeanEnergy(i, slot, mu, z)
		var in float64
		for y = 0; y < m.n; y++ {
			if y == z || m.soff[y][z] <= 0 {
				continue
			}
			in += g[y][z]
			base += g[y][z] * (math.Log(m.soff[y][z]) + rest)
		}
		if in == 0 {
			continue
		}
		for xj := range dst {
			dst[xj] += 2 * in * m.j[z][xj]
		}
	}
	for xj := range dst {
		dst[xj] += base
	}
}
