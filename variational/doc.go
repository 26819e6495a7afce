// Package variational computes a mean-field lower bound on the log-probability
// that a continuous-time Bayesian network of coupled Markov chains, started in
// one joint state, is found in another after time T.
//
// Each component i carries two trajectories on [0,T]: the forward marginal
// μ_i (one-hot at its start state at t=0) and the backward message ρ_i
// (one-hot at its end state at t=T). Holding every other component fixed,
// ρ_i and μ_i solve linear-in-self ODEs whose rates are the arithmetic (q̄) and
// geometric (q̃) averages of the coupling over the neighbors' marginals.
// LogConditional refines the components one at a time in random order
// (coordinate ascent) until the bound
//
//	F = ∫₀ᵀ Σ_i [ −Σ_x μ_i(x)Σ_{y≠x} q̄_i(x,y) + Σ_{x≠y} γ_i(x,y)(log q̃_i(x,y) + 1 + log μ_i(x) − log γ_i(x,y)) ] dt
//
// stops improving. F never exceeds the true log-probability.
//
// Sweeps are sequential: each solve reads the freshest trajectories of all
// other components. Independent problems can be run in parallel with
// SolveBatch.
package variational
