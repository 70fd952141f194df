package rbig

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// correlatedNormal returns n draws of a bivariate standard normal with
// correlation rho.
func correlatedNormal(n int, rho float64, seed uint64) *mat.Dense {
	rnd := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a := rnd.NormFloat64()
		x.Set(i, 0, a)
		x.Set(i, 1, rho*a+math.Sqrt(1-rho*rho)*rnd.NormFloat64())
	}
	return x
}

// banana returns n draws from a non-Gaussian dependent distribution.
func banana(n int, seed uint64) *mat.Dense {
	rnd := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a := rnd.NormFloat64()
		x.Set(i, 0, a)
		x.Set(i, 1, 0.5*a*a+0.3*rnd.NormFloat64())
	}
	return x
}

func TestParseRotation(t *testing.T) {
	for s, want := range map[string]RotationType{
		"PCA":    PCA,
		"pca":    PCA,
		"Random": Random,
	} {
		got, err := ParseRotation(s)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRotation("ica")
	assert.Equal(t, ErrRotation, errors.Cause(err))
}

func TestFitErrors(t *testing.T) {
	x := correlatedNormal(50, 0.5, 1)

	m := New(Config{Layers: 3, Rotation: "householder"})
	assert.Equal(t, ErrRotation, errors.Cause(m.Fit(x)))

	m = New(Config{Layers: 0, Rotation: PCA})
	assert.Equal(t, ErrConfig, errors.Cause(m.Fit(x)))

	x.Set(3, 1, math.NaN())
	m = New(DefaultConfig())
	assert.Equal(t, ErrNonFinite, errors.Cause(m.Fit(x)))

	_, err := m.Transform(x)
	assert.Equal(t, ErrNotFitted, err)
	_, err = m.TotalCorrelation()
	assert.Equal(t, ErrNotFitted, err)
	_, err = m.Sample(3, nil)
	assert.Equal(t, ErrNotFitted, err)
}

func TestFitStopsOnZeroInformation(t *testing.T) {
	x := correlatedNormal(200, 0.8, 2)
	var seen []int
	m := New(Config{
		Layers:        100,
		Rotation:      PCA,
		PDFExtension:  10,
		ZeroTolerance: 3,
		// Large enough that no layer reduces information.
		TolDimensions: 1e6,
	})
	m.OnLayer = func(l int, info float64) {
		seen = append(seen, l)
		assert.Equal(t, 0.0, info)
	}
	require.NoError(t, m.Fit(x))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
	assert.Equal(t, 2, m.Layers())
	assert.Equal(t, []float64{0, 0}, m.ResidualInfo())
}

func TestFitColumnWithinRounding(t *testing.T) {
	x := mat.NewDense(100, 2, nil)
	for i := 0; i < 100; i++ {
		x.Set(i, 0, 1e16+2*float64(i%2))
		x.Set(i, 1, float64(i))
	}
	m := New(Config{Layers: 3, Rotation: PCA, PDFExtension: 10})
	require.NoError(t, m.Fit(x))
	assert.Equal(t, 3, m.Layers())

	_, err := m.Entropy()
	assert.NoError(t, err)
	logp, err := m.LogProb(x)
	require.NoError(t, err)
	for _, v := range logp {
		assert.False(t, math.IsNaN(v))
	}
}

func TestFitWithoutStopping(t *testing.T) {
	x := correlatedNormal(200, 0.8, 3)
	m := New(Config{Layers: 7, Rotation: Random, PDFExtension: 10, TolDimensions: 1e6})
	require.NoError(t, m.Fit(x))
	assert.Equal(t, 7, m.Layers())
	assert.Same(t, x, m.TrainingData())
}

func TestTotalCorrelationAndEntropy(t *testing.T) {
	const rho = 0.9
	x := correlatedNormal(4000, rho, 4)
	m := New(Config{Layers: 10, Rotation: PCA, PDFExtension: 10})
	require.NoError(t, m.Fit(x))

	tc, err := m.TotalCorrelation()
	require.NoError(t, err)
	assert.Equal(t, floats.Sum(m.ResidualInfo()), tc)
	// -log2(1-ρ²)/2 ≈ 1.2 bits.
	assert.Greater(t, tc, 0.9)
	assert.Less(t, tc, 1.7)

	h, err := m.Entropy()
	require.NoError(t, err)
	// log2(2πe) + log2(1-ρ²)/2 ≈ 2.9 bits.
	want := math.Log2(2*math.Pi*math.E) + 0.5*math.Log2(1-rho*rho)
	assert.InDelta(t, want, h, 0.4)
}

func TestTransformGaussianizes(t *testing.T) {
	x := banana(3000, 5)
	m := New(Config{Layers: 20, Rotation: PCA, PDFExtension: 10})
	require.NoError(t, m.Fit(x))

	z, err := m.Transform(x)
	require.NoError(t, err)
	r, c := z.Dims()
	assert.Equal(t, 3000, r)
	assert.Equal(t, 2, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, z)
		mean, std := stat.MeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 0.1)
		assert.InDelta(t, 1, std, 0.15)
	}
	a := mat.Col(nil, 0, z)
	b := mat.Col(nil, 1, z)
	assert.InDelta(t, 0, stat.Correlation(a, b, nil), 0.1)
}

func TestInverseTransform(t *testing.T) {
	x := banana(500, 6)
	m := New(Config{Layers: 5, Rotation: Random, Seed: 11, PDFExtension: 10})
	require.NoError(t, m.Fit(x))

	z, err := m.Transform(x)
	require.NoError(t, err)
	back, err := m.InverseTransform(z)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(x, back, 1e-6))

	_, err = m.InverseTransform(mat.NewDense(2, 3, nil))
	assert.Equal(t, ErrShape, errors.Cause(err))
}

func TestLogProb(t *testing.T) {
	x := correlatedNormal(4000, 0, 9)
	m := New(Config{Layers: 3, Rotation: PCA, PDFExtension: 10})
	require.NoError(t, m.Fit(x))

	logp, err := m.LogProb(x)
	require.NoError(t, err)
	require.Len(t, logp, 4000)
	for _, v := range logp {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	// The mean log-density of a standard bivariate normal is -log(2πe).
	assert.InDelta(t, -math.Log(2*math.Pi*math.E), stat.Mean(logp, nil), 0.3)
}

func TestSample(t *testing.T) {
	x := correlatedNormal(2000, 0.7, 10)
	m := New(Config{Layers: 10, Rotation: PCA, PDFExtension: 10})
	require.NoError(t, m.Fit(x))

	s, err := m.Sample(2000, rand.NewSource(12))
	require.NoError(t, err)
	r, c := s.Dims()
	assert.Equal(t, 2000, r)
	assert.Equal(t, 2, c)
	a := mat.Col(nil, 0, s)
	b := mat.Col(nil, 1, s)
	assert.InDelta(t, 0.7, stat.Correlation(a, b, nil), 0.1)

	_, err = m.Sample(0, nil)
	assert.Equal(t, ErrEmpty, errors.Cause(err))
}

func TestRandomRotationOrthogonal(t *testing.T) {
	q := randomRotation(4, rand.New(rand.NewSource(1)))
	var qtq mat.Dense
	qtq.Mul(q.T(), q)
	assert.True(t, mat.EqualApprox(&qtq, eye(4), 1e-12))
}

func TestPCARotationOrthogonal(t *testing.T) {
	v, err := pcaRotation(banana(100, 13))
	require.NoError(t, err)
	var vtv mat.Dense
	vtv.Mul(v.T(), v)
	assert.True(t, mat.EqualApprox(&vtv, eye(2), 1e-12))
}

func TestPCARotationNotFinite(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		math.MaxFloat64, 1,
		math.MaxFloat64, 2,
		-math.MaxFloat64, 3,
	})
	_, err := pcaRotation(x)
	assert.Equal(t, ErrFactorize, errors.Cause(err))
	assert.Contains(t, err.Error(), "column 0")
}

func eye(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}
