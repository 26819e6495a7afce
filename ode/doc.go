// Package ode is the adaptive explicit Runge–Kutta integrator behind the
// variational trajectories: the Dormand–Prince 5(4) pair with first-same-as-
// last stages, a PI step size controller and a 4th-order continuous extension.
//
// Solve returns a *Solution that implements Path, so a trajectory integrated
// once can be queried at arbitrary times by later solves. Integration runs
// forward (t1 > t0) or backward (t1 < t0); backward potentials are solved
// from T down to 0.
//
// Failures are explicit: the step budget (ErrMaxSteps), a collapsing step
// (ErrStepUnderflow), non-finite states (ErrNonFinite) and errors from the
// right-hand side abort the solve and no partial Solution is returned.
package ode
