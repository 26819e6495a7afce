// SPDX-License-Identifier: MIT

// Package neighborhood: functional options for Build.
//
// Defaults (zero values) mean "derive from the contact matrix": K and M are
// rounded up to the next power of two. Constructors panic on nonsensical
// values (programmer error), never on data.
package neighborhood

const (
	panicPaddedSizeInvalid   = "neighborhood: WithPaddedSize: k must be > 0"
	panicMaxNeighborsInvalid = "neighborhood: WithMaxNeighbors: m must be > 0"
)

// Option configures Build.
type Option func(*buildConfig)

// buildConfig is the resolved configuration of one Build call.
type buildConfig struct {
	k      int   // padded component count; 0 ⇒ RoundUpPow2(K_prepad)
	m      int   // neighbor slots; 0 ⇒ RoundUpPow2(max degree)
	xs, ys []int // optional boundary states (length K_prepad)
	hasXS  bool
	hasYS  bool
}

// WithPaddedSize fixes the padded component count K instead of rounding
// K_prepad up to a power of two. Build fails with ErrPaddedSizeTooSmall when
// k < K_prepad.
func WithPaddedSize(k int) Option {
	if k <= 0 {
		panic(panicPaddedSizeInvalid)
	}

	return func(c *buildConfig) { c.k = k }
}

// WithMaxNeighbors fixes the slot count M instead of rounding the largest
// degree up to a power of two. Build fails with ErrTooManyNeighbors when some
// component has more than m neighbors.
func WithMaxNeighbors(m int) Option {
	if m <= 0 {
		panic(panicMaxNeighborsInvalid)
	}

	return func(c *buildConfig) { c.m = m }
}

// WithStates attaches start (xs) and end (ys) states of the real components;
// Build validates their lengths and zero-pads them to K. Either may be nil.
func WithStates(xs, ys []int) Option {
	return func(c *buildConfig) {
		if xs != nil {
			c.xs, c.hasXS = append([]int(nil), xs...), true
		}
		if ys != nil {
			c.ys, c.hasYS = append([]int(nil), ys...), true
		}
	}
}

func gatherOptions(opts ...Option) buildConfig {
	var c buildConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}
