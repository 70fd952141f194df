// Package rbig implements Rotation-Based Iterative Gaussianization, a density
// estimator that transforms data into a standard multivariate normal by
// alternating marginal Gaussianization of every dimension with an orthogonal
// rotation.
//
// Each layer Gaussianizes the marginals with a histogram estimate of their
// CDF followed by the standard normal quantile function, then rotates the
// result. The loss of marginal entropy caused by the rotation is the
// information removed by that layer; its sum over all layers estimates the
// total correlation of the data. Fitting stops once ZeroTolerance consecutive
// layers remove no information.
//
// Entropies and information are measured in bits. LogProb returns natural
// log-densities.
package rbig
