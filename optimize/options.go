// SPDX-License-Identifier: MIT

package optimize

import (
	"io"
	"log/slog"
	"math"
)

const (
	// DefaultMaxUpdates bounds the number of update steps.
	DefaultMaxUpdates = 4096

	// DefaultMinRelativeIncrease is the convergence threshold on
	// (score − previous)/|previous|.
	DefaultMinRelativeIncrease = 1e-3
)

const (
	panicMaxUpdatesInvalid = "optimize: WithMaxUpdates: n must be > 0"
	panicMinIncInvalid     = "optimize: WithMinRelativeIncrease: value must be finite"
	panicNilLogger         = "optimize: WithLogger: logger must be non-nil"
)

// Option configures Bounded.
type Option func(*Options)

// Options is the effective loop configuration.
type Options struct {
	maxUpdates int
	minInc     float64
	logger     *slog.Logger
	name       string
}

// WithMaxUpdates sets the update budget.
func WithMaxUpdates(n int) Option {
	if n <= 0 {
		panic(panicMaxUpdatesInvalid)
	}

	return func(o *Options) { o.maxUpdates = n }
}

// WithMinRelativeIncrease sets the convergence threshold. Zero or negative
// values are allowed (run until the score stops rising, or decreases).
func WithMinRelativeIncrease(v float64) Option {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(panicMinIncInvalid)
	}

	return func(o *Options) { o.minInc = v }
}

// WithLogger sets the structured logger receiving one debug record per update.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.logger = l }
}

// WithName labels log records (e.g. "sweep").
func WithName(name string) Option {
	return func(o *Options) { o.name = name }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		maxUpdates: DefaultMaxUpdates,
		minInc:     DefaultMinRelativeIncrease,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:       "update",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
