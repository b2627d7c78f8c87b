package helmholtz

import (
	"errors"

	"github.com/tphakala/go-helmholtz/internal/acoustic"
	"github.com/tphakala/go-helmholtz/internal/optimizer"
)

// Error kinds. Every error returned by this package wraps one of them.
var (
	// ErrValidation indicates malformed or out-of-range parameters.
	ErrValidation = acoustic.ErrValidation

	// ErrConfiguration indicates an unsupported geometry, aperture or ending form.
	ErrConfiguration = acoustic.ErrConfiguration

	// ErrNumericalDegeneracy indicates a non-physical intermediate result.
	ErrNumericalDegeneracy = acoustic.ErrNumericalDegeneracy

	// ErrNoSolution indicates every optimization start failed.
	ErrNoSolution = optimizer.ErrNoSolution

	// ErrUnknownPreset indicates a preset name that does not exist.
	ErrUnknownPreset = errors.New("unknown preset")
)

// FieldError names the field and constraint behind a validation or
// configuration error. Use errors.As to retrieve it.
type FieldError = acoustic.FieldError
