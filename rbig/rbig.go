package rbig

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var log = logrus.WithField("component", "rbig")

// Config holds the hyperparameters of a Model.
type Config struct {
	// Layers is the maximum number of layers.
	Layers int
	// Rotation selects the rotation applied in every layer.
	Rotation RotationType
	// Seed seeds the random rotations.
	Seed uint64
	// PDFExtension widens the support of each marginal by this percentage
	// of the data range on both sides.
	PDFExtension float64
	// ZeroTolerance is the number of consecutive layers without information
	// reduction after which fitting stops. If ZeroTolerance is zero or
	// negative, all Layers are fitted.
	ZeroTolerance int
	// TolDimensions is the tolerance of the information reduction test. If
	// TolDimensions is 0, it is derived from the number of samples.
	TolDimensions float64
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		Layers:        1000,
		Rotation:      PCA,
		PDFExtension:  10,
		ZeroTolerance: 60,
	}
}

func (c Config) validate() error {
	switch c.Rotation {
	case PCA, Random:
	default:
		return errors.Wrapf(ErrRotation, "%q", c.Rotation)
	}
	if c.Layers < 1 {
		return errors.Wrapf(ErrConfig, "layers must be positive, got %d", c.Layers)
	}
	if c.PDFExtension < 0 {
		return errors.Wrapf(ErrConfig, "pdf extension must not be negative, got %v", c.PDFExtension)
	}
	if c.TolDimensions < 0 {
		return errors.Wrapf(ErrConfig, "dimension tolerance must not be negative, got %v", c.TolDimensions)
	}
	return nil
}

type layer struct {
	marginals []marginal
	rotation  *mat.Dense
}

// Model is an RBIG density model. The zero value is not usable; construct
// a Model with New.
type Model struct {
	Config Config

	// OnLayer, if set, is called after each layer is fitted with the layer
	// index and the information it removed.
	OnLayer func(layer int, info float64)

	layers   []layer
	residual []float64
	xfit     mat.Matrix
	dim      int
}

// New returns an unfitted Model.
func New(cfg Config) *Model {
	return &Model{Config: cfg}
}

// Fit fits the model to the rows of x. Any previous fit is discarded.
// The model keeps a reference to x, see TrainingData.
func (m *Model) Fit(x mat.Matrix) error {
	cfg := m.Config
	if err := cfg.validate(); err != nil {
		return err
	}
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return ErrEmpty
	}
	data := mat.DenseCopyOf(x)
	for i := 0; i < n; i++ {
		for _, v := range data.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrNonFinite, "row %d", i)
			}
		}
	}

	tol := cfg.TolDimensions
	if tol == 0 {
		tol = dimensionTolerance(n)
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))

	layers := make([]layer, 0, min(cfg.Layers, 256))
	residual := make([]float64, 0, cap(layers))
	rotated := mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for l := 0; l < cfg.Layers; l++ {
		ms := make([]marginal, d)
		for j := range ms {
			mat.Col(col, j, data)
			ms[j] = fitMarginal(col, cfg.PDFExtension)
			for i, v := range col {
				col[i], _ = ms[j].forward(v)
			}
			data.SetCol(j, col)
		}

		var rot *mat.Dense
		switch cfg.Rotation {
		case PCA:
			var err error
			rot, err = pcaRotation(data)
			if err != nil {
				return errors.Wrapf(err, "layer %d", l)
			}
		case Random:
			rot = randomRotation(d, rnd)
		}
		rotated.Mul(data, rot)

		info := informationReduction(rotated, data, tol)
		layers = append(layers, layer{marginals: ms, rotation: rot})
		residual = append(residual, info)
		data, rotated = rotated, data

		if m.OnLayer != nil {
			m.OnLayer(l, info)
		}
		if stopped(residual, cfg.ZeroTolerance) {
			layers = layers[:len(layers)-cfg.ZeroTolerance]
			residual = residual[:len(residual)-cfg.ZeroTolerance]
			log.WithFields(logrus.Fields{
				"fitted": l + 1,
				"kept":   len(layers),
			}).Debug("information reduction converged")
			break
		}
	}

	m.layers = layers
	m.residual = residual
	m.xfit = x
	m.dim = d
	log.WithFields(logrus.Fields{
		"rows":             n,
		"cols":             d,
		"layers":           len(layers),
		"totalCorrelation": floats.Sum(residual),
	}).Debug("fitted rbig model")
	return nil
}

// stopped reports whether the last zeroTol reductions are all zero. The
// first zeroTol+1 layers never stop.
func stopped(residual []float64, zeroTol int) bool {
	if zeroTol <= 0 || len(residual) <= zeroTol+1 {
		return false
	}
	for _, v := range residual[len(residual)-zeroTol:] {
		if v != 0 {
			return false
		}
	}
	return true
}

func (m *Model) check(x mat.Matrix) error {
	if m.xfit == nil {
		return ErrNotFitted
	}
	r, c := x.Dims()
	if r == 0 {
		return ErrEmpty
	}
	if c != m.dim {
		return errors.Wrapf(ErrShape, "got %d columns, fitted on %d", c, m.dim)
	}
	return nil
}

// Layers returns the number of fitted layers.
func (m *Model) Layers() int {
	return len(m.layers)
}

// ResidualInfo returns the information removed by each layer in bits.
func (m *Model) ResidualInfo() []float64 {
	out := make([]float64, len(m.residual))
	copy(out, m.residual)
	return out
}

// TrainingData returns the matrix passed to Fit.
func (m *Model) TrainingData() mat.Matrix {
	return m.xfit
}

// TotalCorrelation returns the total correlation of the training data in
// bits, the sum of the information removed by all layers.
func (m *Model) TotalCorrelation() (float64, error) {
	if m.xfit == nil {
		return 0, ErrNotFitted
	}
	return floats.Sum(m.residual), nil
}

// Entropy returns the joint differential entropy of the training data in
// bits, the sum of its marginal entropies minus the total correlation.
func (m *Model) Entropy() (float64, error) {
	tc, err := m.TotalCorrelation()
	if err != nil {
		return 0, err
	}
	return floats.Sum(marginalEntropies(m.xfit)) - tc, nil
}

// forward transforms x into the Gaussian domain. If logDet is not nil, the
// log absolute Jacobian determinant of every row is added to it.
func (m *Model) forward(x mat.Matrix, logDet []float64) *mat.Dense {
	data := mat.DenseCopyOf(x)
	n, _ := data.Dims()
	for _, l := range m.layers {
		for i := 0; i < n; i++ {
			row := data.RawRowView(i)
			for j, v := range row {
				z, ld := l.marginals[j].forward(v)
				row[j] = z
				if logDet != nil {
					logDet[i] += ld
				}
			}
		}
		var next mat.Dense
		next.Mul(data, l.rotation)
		data = &next
	}
	return data
}

// Transform maps the rows of x into the Gaussian domain.
func (m *Model) Transform(x mat.Matrix) (*mat.Dense, error) {
	if err := m.check(x); err != nil {
		return nil, err
	}
	return m.forward(x, nil), nil
}

// InverseTransform maps the rows of z from the Gaussian domain back to the
// data domain.
func (m *Model) InverseTransform(z mat.Matrix) (*mat.Dense, error) {
	if err := m.check(z); err != nil {
		return nil, err
	}
	data := mat.DenseCopyOf(z)
	n, _ := data.Dims()
	for k := len(m.layers) - 1; k >= 0; k-- {
		l := m.layers[k]
		var prev mat.Dense
		prev.Mul(data, l.rotation.T())
		data = &prev
		for i := 0; i < n; i++ {
			row := data.RawRowView(i)
			for j, v := range row {
				row[j] = l.marginals[j].inverse(v)
			}
		}
	}
	return data, nil
}

// LogProb returns the natural log-density of each row of x.
func (m *Model) LogProb(x mat.Matrix) ([]float64, error) {
	if err := m.check(x); err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	logp := make([]float64, n)
	z := m.forward(x, logp)
	for i := range logp {
		for _, v := range z.RawRowView(i) {
			logp[i] += distuv.UnitNormal.LogProb(v)
		}
	}
	return logp, nil
}

// Sample draws n rows from the fitted density. If src is nil, the global
// source is used.
func (m *Model) Sample(n int, src rand.Source) (*mat.Dense, error) {
	if m.xfit == nil {
		return nil, ErrNotFitted
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrEmpty, "sample size %d", n)
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	z := mat.NewDense(n, m.dim, nil)
	for i := 0; i < n; i++ {
		row := z.RawRowView(i)
		for j := range row {
			row[j] = norm.Rand()
		}
	}
	return m.InverseTransform(z)
}
