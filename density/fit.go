package density

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/jejjohnson/2019-rbig-rs/rbig"
)

var log = logrus.WithField("component", "density")

const (
	// DefaultSubsample is the row cap applied before fitting.
	DefaultSubsample = 100000
	// DefaultRandomState seeds the subsampling step.
	DefaultRandomState = 123
	// NoSubsample, or any negative Subsample, fits on every row.
	NoSubsample = -1
)

// Hyperparams are the constructor arguments of a density model. Their
// meaning is defined by the backend that consumes them.
type Hyperparams struct {
	Layers        int
	Rotation      string
	Seed          uint64
	PDFExtension  float64
	ZeroTolerance int
}

// RBIGHyperparams returns the fixed hyperparameters used by FitRBIG.
//
// Seed is the seed of the model itself and is unrelated to
// Settings.RandomState, which only drives subsampling.
func RBIGHyperparams() Hyperparams {
	return Hyperparams{
		Layers:        10000,
		Rotation:      "PCA",
		Seed:          0,
		PDFExtension:  10,
		ZeroTolerance: 60,
	}
}

// Model is a trainable density model.
type Model interface {
	Fit(x mat.Matrix) error
}

// Factory constructs an untrained Model from a set of hyperparameters.
type Factory func(hp Hyperparams) Model

// DefaultFactory constructs an *rbig.Model. A rotation name that rbig does
// not recognise is kept as given and reported by Fit.
func DefaultFactory(hp Hyperparams) Model {
	rot, err := rbig.ParseRotation(hp.Rotation)
	if err != nil {
		rot = rbig.RotationType(hp.Rotation)
	}
	return rbig.New(rbig.Config{
		Layers:        hp.Layers,
		Rotation:      rot,
		Seed:          hp.Seed,
		PDFExtension:  hp.PDFExtension,
		ZeroTolerance: hp.ZeroTolerance,
	})
}

// Settings control FitRBIG.
type Settings struct {
	// Subsample caps the number of rows passed to Fit. Zero means
	// DefaultSubsample and a negative value means no cap.
	Subsample int
	// RandomState seeds the subsampling step. Zero means DefaultRandomState.
	RandomState uint64
	// Factory constructs the model. If Factory is nil, DefaultFactory is used.
	Factory Factory
	// Sampler reduces the rows. If Sampler is nil, Subset is used.
	Sampler Sampler
}

// DefaultSettings returns the settings used when FitRBIG is called with nil.
func DefaultSettings() *Settings {
	return &Settings{
		Subsample:   DefaultSubsample,
		RandomState: DefaultRandomState,
	}
}

// FitRBIG reduces x to at most settings.Subsample rows, constructs a model
// with RBIGHyperparams and fits it on the reduced data. If settings is nil,
// DefaultSettings is used.
//
// Errors from the model are returned with added context and are otherwise
// unchanged; errors.Cause recovers the original.
func FitRBIG(x mat.Matrix, settings *Settings) (Model, error) {
	if settings == nil {
		settings = DefaultSettings()
	}
	sampler := settings.Sampler
	if sampler == nil {
		sampler = Subset
	}
	factory := settings.Factory
	if factory == nil {
		factory = DefaultFactory
	}

	n := settings.Subsample
	if n == 0 {
		n = DefaultSubsample
	}
	seed := settings.RandomState
	if seed == 0 {
		seed = DefaultRandomState
	}

	r, c := x.Dims()
	sub := sampler(x, n, seed)
	sr, _ := sub.Dims()
	log.WithFields(logrus.Fields{
		"rows":       r,
		"cols":       c,
		"subsampled": sr,
		"seed":       seed,
	}).Debug("subsampled input")

	model := factory(RBIGHyperparams())
	if err := model.Fit(sub); err != nil {
		return nil, errors.Wrapf(err, "fit density model on %dx%d data", sr, c)
	}
	return model, nil
}
