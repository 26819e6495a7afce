// SPDX-License-Identifier: MIT

// Package ode: functional configuration for Solve.
// Defaults match the step controller settings used across ctbn; WithX setters
// panic on nonsensical values.
package ode

import "math"

const (
	// DefaultRelTol is the relative tolerance of the local error test.
	DefaultRelTol = 1e-3

	// DefaultAbsTol is the absolute tolerance of the local error test.
	DefaultAbsTol = 1e-6

	// DefaultMaxSteps bounds accepted plus rejected steps of one solve.
	DefaultMaxSteps = 4096
)

const (
	panicTolInvalid      = "ode: WithTolerances: rtol and atol must be finite and > 0"
	panicMaxStepsInvalid = "ode: WithMaxSteps: n must be > 0"
	panicStepInvalid     = "ode: step size must be finite and > 0"
)

// Option mutates Options.
type Option func(*Options)

// Options is the effective solver configuration.
type Options struct {
	rtol, atol  float64
	maxSteps    int
	initialStep float64 // 0 ⇒ automatic
	maxStep     float64 // 0 ⇒ |t1 - t0|
}

func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// WithTolerances sets the relative and absolute tolerances.
func WithTolerances(rtol, atol float64) Option {
	if !validPositive(rtol) || !validPositive(atol) {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.rtol, o.atol = rtol, atol }
}

// WithMaxSteps sets the step budget.
func WithMaxSteps(n int) Option {
	if n <= 0 {
		panic(panicMaxStepsInvalid)
	}

	return func(o *Options) { o.maxSteps = n }
}

// WithInitialStep fixes the magnitude of the first trial step instead of
// estimating it.
func WithInitialStep(h float64) Option {
	if !validPositive(h) {
		panic(panicStepInvalid)
	}

	return func(o *Options) { o.initialStep = h }
}

// WithMaxStep caps the magnitude of every step.
func WithMaxStep(h float64) Option {
	if !validPositive(h) {
		panic(panicStepInvalid)
	}

	return func(o *Options) { o.maxStep = h }
}

func gatherOptions(opts ...Option) Options {
	o := Options{rtol: DefaultRelTol, atol: DefaultAbsTol, maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
