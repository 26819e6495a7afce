// Package rates is the CTBN rate model of a Potts-style sequence: parameters
// {S, J, h} over an alphabet of N states, bound to a padded neighborhood.
//
// A component i in state x jumps to y≠x at rate
//
//	S[x,y]·exp(h[y] + 2Σ_{neighbors k} J[y, x_k]).
//
// Mean-field inference replaces each neighbor state x_k by its marginal μ_k.
// Model exposes both averages of the coupling term:
//
//   - arithmetic (MeanFieldRate): the expectation of exp(2J) per neighbor,
//     multiplied across neighbors;
//   - geometric (GeometricMeanFieldRate): exp of 2·(expected energy).
//
// Each also has a conditional form in which one neighbor is held at a fixed
// state (MeanFieldRateConditional, GeometricMeanFieldRateConditional). Those
// tensors are only defined off the diagonal; their accessors return
// ErrDiagonalRate on x == y.
//
// Logarithms and reciprocals of possibly-zero quantities go through SafeLog
// and SafeRecip, which clamp at Floor.
package rates
