// SPDX-License-Identifier: MIT

package rates

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctbn/matrix"
	"github.com/katalvlaran/ctbn/neighborhood"
)

const (
	methodNewModel    = "NewModel"
	methodMeanField   = "MeanFieldRate"
	methodGeometric   = "GeometricMeanFieldRate"
	methodConditional = "ConditionalRate"
)

// Model binds normalised parameters to a neighborhood and caches the
// quantities every rate view needs: the off-diagonal of S, exp(h), J and
// exp(2J). A Model is immutable and safe for concurrent readers.
type Model struct {
	params Params
	nb     *neighborhood.Neighborhood
	n      int

	soff  [][]float64 // S with a zero diagonal
	expH  []float64
	j     [][]float64
	exp2J [][]float64
}

// NewModel normalises p and validates nb.
// Errors: those of Params.Validate and neighborhood.ErrInvalidNeighborhood.
// Complexity: O(N²).
func NewModel(p Params, nb *neighborhood.Neighborhood) (*Model, error) {
	norm, err := Normalize(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodNewModel, err)
	}
	if err = nb.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodNewModel, err)
	}
	n := norm.N()
	m := &Model{
		params: norm,
		nb:     nb,
		n:      n,
		soff:   make([][]float64, n),
		expH:   make([]float64, n),
		j:      make([][]float64, n),
		exp2J:  make([][]float64, n),
	}
	for y := 0; y < n; y++ {
		m.expH[y] = math.Exp(norm.H[y])
		m.soff[y] = append([]float64(nil), norm.S.RawRow(y)...)
		m.soff[y][y] = 0
		m.j[y] = append([]float64(nil), norm.J.RawRow(y)...)
		m.exp2J[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			m.exp2J[y][x] = math.Exp(2 * m.j[y][x])
		}
	}

	return m, nil
}

// N returns the alphabet size.
func (m *Model) N() int { return m.n }

// K returns the padded component count.
func (m *Model) K() int { return m.nb.K }

// Neighborhood returns the bound neighborhood.
func (m *Model) Neighborhood() *neighborhood.Neighborhood { return m.nb }

// Params returns the normalised parameters. Callers must not mutate them.
func (m *Model) Params() Params { return m.params }

// SingleComponentRate returns the uncoupled generator
// Q[x,y] = S[x,y]·exp(h[y]) for x≠y, Q[x,x] = −Σ_{y≠x} Q[x,y].
// Complexity: O(N²).
func (m *Model) SingleComponentRate() *matrix.Dense {
	q, _ := matrix.NewDense(m.n, m.n)
	var rowSum float64
	for x := 0; x < m.n; x++ {
		row := q.RawRow(x)
		rowSum = 0
		for y := 0; y < m.n; y++ {
			if y == x {
				continue
			}
			row[y] = m.soff[x][y] * m.expH[y]
			rowSum += row[y]
		}
		row[x] = -rowSum
	}

	return q
}

// ValidateMarginals checks that mu is a K×N snapshot.
// Errors: ErrMarginalShape.
func (m *Model) ValidateMarginals(mu [][]float64) error {
	if len(mu) != m.nb.K {
		return fmt.Errorf("len=%d want K=%d: %w", len(mu), m.nb.K, ErrMarginalShape)
	}
	for i, row := range mu {
		if len(row) != m.n {
			return fmt.Errorf("row %d len=%d want N=%d: %w", i, len(row), m.n, ErrMarginalShape)
		}
	}

	return nil
}

func (m *Model) checkComponent(i int) error {
	if i < 0 || i >= m.nb.K {
		return fmt.Errorf("i=%d K=%d: %w", i, m.nb.K, ErrComponentRange)
	}

	return nil
}

// ConditionalRate is the exact CTBN rate of component i jumping to y while the
// whole system sits in x:
// S[x_i,y]·exp(h[y] + 2Σ_{real j} J[y, x_{nbr_j}]).
// Errors: ErrComponentRange, ErrMarginalShape (len(x) != K), ErrStateRange,
// ErrDiagonalRate (y == x_i).
// Complexity: O(M).
func (m *Model) ConditionalRate(i int, x []int, y int) (float64, error) {
	if err := m.checkComponent(i); err != nil {
		return 0, fmt.Errorf("%s: %w", methodConditional, err)
	}
	if len(x) != m.nb.K {
		return 0, fmt.Errorf("%s: len(x)=%d: %w", methodConditional, len(x), ErrMarginalShape)
	}
	if y < 0 || y >= m.n || x[i] < 0 || x[i] >= m.n {
		return 0, fmt.Errorf("%s: y=%d x_i=%d: %w", methodConditional, y, x[i], ErrStateRange)
	}
	if y == x[i] {
		return 0, fmt.Errorf("%s: %d→%d: %w", methodConditional, y, y, ErrDiagonalRate)
	}
	energy := m.params.H[y]
	for slot, ok := range m.nb.NbrMask[i] {
		if !ok {
			continue
		}
		xn := x[m.nb.NbrIdx[i][slot]]
		if xn < 0 || xn >= m.n {
			return 0, fmt.Errorf("%s: neighbor state %d: %w", methodConditional, xn, ErrStateRange)
		}
		energy += 2 * m.j[y][xn]
	}

	return m.soff[x[i]][y] * math.Exp(energy), nil
}
