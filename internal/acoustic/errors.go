package acoustic

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds returned by the engine. Every constructor error wraps one of
// these so callers can branch with errors.Is.
var (
	// ErrValidation indicates malformed or out-of-range parameters.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration indicates an unsupported geometry, aperture or ending form.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumericalDegeneracy indicates a computation produced a non-physical value.
	ErrNumericalDegeneracy = errors.New("numerical degeneracy")
)

// FieldError describes which field violated which constraint.
type FieldError struct {
	Kind       error  // ErrValidation, ErrConfiguration or ErrNumericalDegeneracy
	Field      string // e.g. "aperture.radius"
	Constraint string // e.g. "must be > 0"
	Value      any    // offending value, nil when the field is missing
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Constraint)
	}
	return fmt.Sprintf("%v: %s %s (got %v)", e.Kind, e.Field, e.Constraint, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func invalid(field, constraint string, value any) error {
	return &FieldError{Kind: ErrValidation, Field: field, Constraint: constraint, Value: value}
}

func missing(field, constraint string) error {
	return &FieldError{Kind: ErrValidation, Field: field, Constraint: constraint}
}

func unsupported(field, value string, allowed string) error {
	return &FieldError{Kind: ErrConfiguration, Field: field, Constraint: "must be one of " + allowed, Value: value}
}

func degenerate(field, constraint string, value any) error {
	return &FieldError{Kind: ErrNumericalDegeneracy, Field: field, Constraint: constraint, Value: value}
}

// requirePositive returns a validation error unless v is finite and > 0.
func requirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(field, "must be a finite value > 0", v)
	}
	return nil
}
