package rbig

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RotationType selects the orthogonal transform applied after each marginal
// Gaussianization.
type RotationType string

const (
	// PCA rotates onto the principal axes of the layer's data.
	PCA RotationType = "PCA"
	// Random rotates by a random orthogonal matrix drawn from Config.Seed.
	Random RotationType = "random"
)

// ParseRotation returns the RotationType named by s, ignoring case.
func ParseRotation(s string) (RotationType, error) {
	switch strings.ToLower(s) {
	case "pca":
		return PCA, nil
	case "random":
		return Random, nil
	}
	return "", errors.Wrapf(ErrRotation, "%q", s)
}

// pcaRotation returns the d×d matrix whose columns are the principal axes of
// x, ordered by decreasing variance.
func pcaRotation(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	centered := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		floats.AddConst(-stat.Mean(col, nil), col)
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(ErrFactorize, "PCA: column %d is not finite after centering", j)
			}
		}
		centered.SetCol(j, col)
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDFullV); !ok {
		return nil, errors.Wrap(ErrFactorize, "PCA")
	}
	var v mat.Dense
	svd.VTo(&v)
	return &v, nil
}

// randomRotation returns a d×d orthogonal matrix from the QR decomposition
// of a matrix of standard normal draws.
func randomRotation(d int, rnd *rand.Rand) *mat.Dense {
	a := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			a.Set(i, j, rnd.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)
	return &q
}
