// Package matrix offers the dense row-major matrix used for every rate
// matrix, exchangeability matrix, coupling matrix and contact map in ctbn.
//
// The matrix package provides:
//
//   - Dense, a flat row-major buffer with bounds-checked At/Set and a
//     NaN/Inf numeric policy.
//   - Central validators (square, symmetric, finite, rate generator).
//   - Small kernels: Add, Sub, Scale, Transpose, Mul, MatVec, VecMat,
//     Symmetrize.
//   - A gonum bridge for the matrix exponential (Expm) and conversions.
//
// Matrices here are small (N×N with N the alphabet size, or K×K contact
// maps); the joint-space generator used by the exact oracle is the only
// large one and is built for tiny systems only.
package matrix
