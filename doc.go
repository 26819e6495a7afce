// Package ctbn bounds the probability that a network of coupled continuous-time
// Markov chains moves from one observed configuration to another.
//
// Each component (a site in a sequence, a node in a contact map) jumps among N
// states with rates that depend on the current states of its neighbors through
// a Potts-style energy. The exact transition probability needs the N^K-state
// joint generator; ctbn instead computes a mean-field variational lower bound
// that only ever solves ODEs over a single component's N states.
//
// Subpackages:
//
//	matrix/       dense row-major matrices, validators, gonum bridge (Expm)
//	neighborhood/ padded sparse contact structure and contact generators
//	rates/        parameters, exact conditional rates, mean-field rate averages
//	ode/          adaptive Dormand–Prince solver with dense output
//	exact/        closed-form single-chain paths and small-system oracles
//	optimize/     bounded fixed-point loop shared by the iterative solvers
//	potts/        static Potts energies and partition-function bounds
//	variational/  the coordinate-ascent driver (LogConditional, SolveBatch)
//
// Quick start:
//
//	nb, _ := neighborhood.Build(contacts, neighborhood.WithStates(xs, ys))
//	res, err := variational.LogConditional(ctx, variational.Problem{
//		Seed: 1, XS: nb.XS, YS: nb.YS, Neighborhood: nb, Params: params, T: 1,
//	})
//
// See examples/ for runnable programs.
package ctbn
