package rbig

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Empirical tolerance of the information reduction test as a function of
// the number of samples. Values between the tabulated sample counts are
// interpolated linearly; values outside are clamped.
var (
	tolSamples = []float64{1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8}
	tolValues  = []float64{0.1571, 0.0468, 0.0145, 0.0046, 0.0014, 0.0001, 0.00001}
)

// dimensionTolerance returns the tolerance used for n samples.
func dimensionTolerance(n int) float64 {
	x := float64(n)
	if x <= tolSamples[0] {
		return tolValues[0]
	}
	last := len(tolSamples) - 1
	if x >= tolSamples[last] {
		return tolValues[last]
	}
	k := segment(tolSamples, x)
	frac := (x - tolSamples[k]) / (tolSamples[k+1] - tolSamples[k])
	return tolValues[k] + frac*(tolValues[k+1]-tolValues[k])
}

// marginalEntropy estimates the differential entropy of x in bits from a
// histogram with binCount(len(x)) bins, including the Miller-Madow
// correction. A sample that is constant, or constant up to rounding, has
// zero entropy.
func marginalEntropy(x []float64) float64 {
	n := len(x)
	lo, hi := floats.Min(x), floats.Max(x)
	nBins := binCount(n)
	dividers, ok := spanDividers(lo, hi, nBins)
	if !ok {
		return 0
	}
	counts := histogram(x, dividers)

	var nonzero int
	for i, c := range counts {
		if c > 0 {
			nonzero++
		}
		counts[i] = c / float64(n)
	}
	h := stat.Entropy(counts) / math.Ln2
	correction := 0.5 * float64(nonzero-1) / float64(n)
	delta := (hi - lo) / float64(nBins)
	return h + correction + math.Log2(delta)
}

// marginalEntropies returns the marginal entropy of every column of x.
func marginalEntropies(x mat.Matrix) []float64 {
	r, c := x.Dims()
	h := make([]float64, c)
	col := make([]float64, r)
	for j := range h {
		mat.Col(col, j, x)
		h[j] = marginalEntropy(col)
	}
	return h
}

// informationReduction returns the drop in summed marginal entropy from
// before to after. Reductions that are negative, or whose per-dimension
// changes are within the sampling tolerance tol, count as zero.
func informationReduction(after, before mat.Matrix, tol float64) float64 {
	hAfter := marginalEntropies(after)
	hBefore := marginalEntropies(before)

	info := floats.Sum(hBefore) - floats.Sum(hAfter)
	change := floats.Distance(hBefore, hAfter, 2)
	const p = 0.25
	if change < math.Sqrt(float64(len(hAfter))*p*tol*tol) || info < 0 {
		return 0
	}
	return info
}
