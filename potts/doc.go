// Package potts evaluates the stationary Potts distribution of a CTBN,
//
//	log P(x) = Σ_i (h[x_i] + Σ_{j∈nbr(i)} J[x_i, x_j]) − log Z,
//
// which is the equilibrium of the jump process in package rates. It offers
// the unnormalised log-marginal, the pseudo-likelihood, a mean-field lower
// bound on log Z and its fixed-point maximiser, an exhaustive log Z for small
// systems, and the L2 regulariser used when fitting {J, h}.
package potts
