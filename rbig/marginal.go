package rbig

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// uniformClip keeps uniformized values away from 0 and 1 so the normal
// quantile stays finite.
const uniformClip = 1e-10

// binCount is the number of histogram bins used for n samples.
func binCount(n int) int {
	b := int(math.Ceil(math.Sqrt(float64(n))))
	if b < 1 {
		b = 1
	}
	return b
}

// spanDividers returns the nBins+1 dividers of equal-width bins over
// [lo, hi], with the last divider just above hi so the last bin is closed on
// the right. ok is false when the range is too narrow, relative to the
// magnitude of its ends, for the dividers to be strictly increasing.
func spanDividers(lo, hi float64, nBins int) (dividers []float64, ok bool) {
	dividers = floats.Span(make([]float64, nBins+1), lo, hi)
	dividers[nBins] = math.Nextafter(hi, math.Inf(1))
	for i := 1; i < len(dividers); i++ {
		if dividers[i] <= dividers[i-1] {
			return nil, false
		}
	}
	return dividers, true
}

// widen returns an interval centred on [lo, hi] that is wide enough to be
// split into bins at the magnitude of its ends.
func widen(lo, hi float64) (float64, float64) {
	mid := lo/2 + hi/2
	pad := 0.5 * math.Max(1, math.Abs(mid)*1e-8)
	return mid - pad, mid + pad
}

// histogram sorts a copy of x and counts it into the bins given by dividers.
func histogram(x, dividers []float64) []float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return stat.Histogram(nil, dividers, sorted, nil)
}

// marginal is the univariate Gaussianization of one dimension. The CDF is
// piecewise linear between knots; both knots and cdf are strictly
// increasing, with cdf[0] = 0 and cdf[len-1] = 1.
type marginal struct {
	knots []float64
	cdf   []float64
}

// fitMarginal estimates the CDF of x from a histogram with binCount(len(x))
// bins over [min(x), max(x)], widened when x is constant. The support is widened by extension percent of
// the data range on each side. The histogram is mixed with a uniform density
// over the widened support, weighted 1/(n+1), so that no segment is flat and
// the widened tails carry a small amount of mass.
func fitMarginal(x []float64, extension float64) marginal {
	n := len(x)
	nBins := binCount(n)
	lo, hi := floats.Min(x), floats.Max(x)
	dividers, ok := spanDividers(lo, hi, nBins)
	if !ok {
		// Constant, or constant up to rounding.
		lo, hi = widen(lo, hi)
		dividers, _ = spanDividers(lo, hi, nBins)
	}
	ext := extension / 100 * (hi - lo)
	counts := histogram(x, dividers)

	// Segment k of knots holds bin k-off of the histogram.
	knots := make([]float64, 0, nBins+3)
	var off int
	if ext > 0 {
		knots = append(knots, lo-ext)
		off = 1
	}
	knots = append(knots, dividers[:nBins]...)
	knots = append(knots, hi)
	if ext > 0 {
		knots = append(knots, hi+ext)
	}

	width := knots[len(knots)-1] - knots[0]
	lambda := 1 / float64(n+1)
	cdf := make([]float64, len(knots))
	for k := 0; k < len(knots)-1; k++ {
		p := lambda * (knots[k+1] - knots[k]) / width
		if b := k - off; b >= 0 && b < nBins {
			p += (1 - lambda) * counts[b] / float64(n)
		}
		cdf[k+1] = cdf[k] + p
	}
	cdf[len(cdf)-1] = 1
	return marginal{knots: knots, cdf: cdf}
}

// segment returns the index k of the segment [s[k], s[k+1]] holding v.
// Values outside s map to the first or last segment.
func segment(s []float64, v float64) int {
	k := sort.SearchFloat64s(s, v) - 1
	if k < 0 {
		k = 0
	}
	if k > len(s)-2 {
		k = len(s) - 2
	}
	return k
}

// forward maps v to the Gaussian domain and returns the log of the
// derivative of the map at v.
func (m marginal) forward(v float64) (z, logDeriv float64) {
	k := segment(m.knots, v)
	dens := (m.cdf[k+1] - m.cdf[k]) / (m.knots[k+1] - m.knots[k])
	u := m.cdf[k] + dens*(v-m.knots[k])
	u = math.Max(uniformClip, math.Min(1-uniformClip, u))
	z = distuv.UnitNormal.Quantile(u)
	return z, math.Log(dens) - distuv.UnitNormal.LogProb(z)
}

// inverse maps z from the Gaussian domain back to the data domain.
func (m marginal) inverse(z float64) float64 {
	u := distuv.UnitNormal.CDF(z)
	u = math.Max(uniformClip, math.Min(1-uniformClip, u))
	k := segment(m.cdf, u)
	frac := (u - m.cdf[k]) / (m.cdf[k+1] - m.cdf[k])
	return m.knots[k] + frac*(m.knots[k+1]-m.knots[k])
}
