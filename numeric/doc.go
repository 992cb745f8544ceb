// Package numeric provides the dense linear-algebra, descriptive-statistics,
// kernel-density-estimation, and clustering primitives shared by every other
// package in this module: compensation, TRU-OLS unmixing, signature building,
// and automated gating all bottom out here.
//
// Linear algebra (Solve, Invert, IsApproxIdentity) is a thin, deterministic
// wrapper around gonum.org/v1/gonum/mat rather than a hand-rolled LU — the
// factorization itself is exactly the LU/normal-equations approach the
// teacher package used, just delegated to a maintained library.
//
// Descriptive statistics (Median, MAD, Percentile, GeometricMean) and the
// FFT-convolution KDE (KDE1D, KDE2D) are used both by TRU-OLS preprocessing
// and by the automated-gating and signature-building peak-isolation logic.
package numeric
