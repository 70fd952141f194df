package rbig

import "github.com/pkg/errors"

var (
	// ErrEmpty is returned when fitting or transforming a matrix with no rows.
	ErrEmpty = errors.New("rbig: empty input")
	// ErrNonFinite is returned when the training data contains NaN or ±Inf.
	ErrNonFinite = errors.New("rbig: input contains non-finite values")
	// ErrRotation is returned for an unknown rotation type.
	ErrRotation = errors.New("rbig: unknown rotation type")
	// ErrConfig is returned for an unusable Config.
	ErrConfig = errors.New("rbig: invalid config")
	// ErrNotFitted is returned when a model is used before Fit succeeds.
	ErrNotFitted = errors.New("rbig: model is not fitted")
	// ErrFactorize is returned when a rotation cannot be computed.
	ErrFactorize = errors.New("rbig: factorization failed")
	// ErrShape is returned when the input width differs from the training data.
	ErrShape = errors.New("rbig: dimension mismatch")
)
