// Package optimize provides Bounded, the score/update loop with a relative
// improvement threshold and an update budget shared by the variational
// driver and the Potts mean-field solver. Callers learn why the loop stopped
// through Result.Status.
package optimize
