// Package exact holds the closed-form and brute-force references of the
// variational engine.
//
// Rho and Mu are the endpoint-conditioned backward potential and forward
// marginal of a single chain, computed from matrix exponentials; they seed the
// coordinate ascent with positive, boundary-exact trajectories. Fixed and
// Zero are constant paths.
//
// JointRate and LogConditional build the full N^K generator of a small CTBN
// and are meant only as correctness oracles. Equilibrium returns the
// stationary distribution of any generator.
package exact
