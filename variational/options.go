// SPDX-License-Identifier: MIT

// Package variational: functional options for LogConditional and SolveBatch.
// Default* constants are the single source of truth; WithX setters panic on
// nonsensical values.
package variational

import (
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/ctbn/ode"
)

const (
	// DefaultMinRelativeIncrease stops the sweeps once (F − F_prev)/|F_prev|
	// falls to this value.
	DefaultMinRelativeIncrease = 1e-3

	// DefaultMaxSweeps bounds the number of coordinate-ascent sweeps.
	DefaultMaxSweeps = 4096

	// DefaultRelTol and DefaultAbsTol are the local error tolerances of every
	// trajectory solve.
	DefaultRelTol = ode.DefaultRelTol
	DefaultAbsTol = ode.DefaultAbsTol

	// DefaultMaxSteps bounds the steps of one trajectory solve.
	DefaultMaxSteps = ode.DefaultMaxSteps
)

const (
	panicMinIncInvalid    = "variational: WithMinRelativeIncrease: value must be finite"
	panicMaxSweepsInvalid = "variational: WithMaxSweeps: n must be > 0"
	panicTolInvalid       = "variational: WithTolerances: rtol and atol must be finite and > 0"
	panicMaxStepsInvalid  = "variational: WithMaxSteps: n must be > 0"
	panicNilLogger        = "variational: WithLogger: logger must be non-nil"
)

// Option configures LogConditional.
type Option func(*Options)

// Options is the effective driver configuration.
type Options struct {
	minInc     float64
	maxSweeps  int
	rtol, atol float64
	maxSteps   int
	logger     *slog.Logger
}

// WithMinRelativeIncrease sets the convergence threshold on the bound.
func WithMinRelativeIncrease(v float64) Option {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(panicMinIncInvalid)
	}

	return func(o *Options) { o.minInc = v }
}

// WithMaxSweeps sets the sweep budget.
func WithMaxSweeps(n int) Option {
	if n <= 0 {
		panic(panicMaxSweepsInvalid)
	}

	return func(o *Options) { o.maxSweeps = n }
}

// WithTolerances sets rtol and atol of every trajectory solve.
func WithTolerances(rtol, atol float64) Option {
	ok := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	if !ok(rtol) || !ok(atol) {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.rtol, o.atol = rtol, atol }
}

// WithMaxSteps sets the step budget of every trajectory solve.
func WithMaxSteps(n int) Option {
	if n <= 0 {
		panic(panicMaxStepsInvalid)
	}

	return func(o *Options) { o.maxSteps = n }
}

// WithLogger sets the structured logger. Sweeps are logged at debug level,
// the outcome at info level.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		minInc:    DefaultMinRelativeIncrease,
		maxSweeps: DefaultMaxSweeps,
		rtol:      DefaultRelTol,
		atol:      DefaultAbsTol,
		maxSteps:  DefaultMaxSteps,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

func (o Options) odeOptions() []ode.Option {
	return []ode.Option{ode.WithTolerances(o.rtol, o.atol), ode.WithMaxSteps(o.maxSteps)}
}
