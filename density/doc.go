// Package density fits density models on bounded subsamples of a data
// matrix.
//
// FitRBIG caps the number of rows with a seeded subsampler and fits a
// Rotation-Based Iterative Gaussianization model with a fixed set of
// hyperparameters. The model constructor and the subsampler can both be
// replaced through Settings, so any backend that implements Model can be
// used in place of package rbig.
package density
