package optimizer

import (
	"fmt"
	"math"

	"github.com/tphakala/go-helmholtz/internal/mathutil"
)

// Parameter indices into a Vector.
const (
	ParamX = iota
	ParamY
	ParamZ
	ParamRadius
	ParamLength
	ParamXi

	NumParams
)

var paramNames = [NumParams]string{"x", "y", "z", "radius", "length", "xi"}

// ParamName returns the short name of parameter i.
func ParamName(i int) string { return paramNames[i] }

// Vector is one point of the search space:
// cavity x, y, z, aperture radius, aperture length, damping coefficient.
type Vector [NumParams]float64

// Bound is a closed interval [Lo, Hi].
type Bound struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Bounds holds one interval per parameter.
type Bounds [NumParams]Bound

// DefaultBounds returns the physical search ranges.
func DefaultBounds() Bounds {
	cavity := Bound{defaultCavityMin, defaultCavityMax}
	return Bounds{
		ParamX:      cavity,
		ParamY:      cavity,
		ParamZ:      cavity,
		ParamRadius: {defaultRadiusMin, defaultRadiusMax},
		ParamLength: {defaultLengthMin, defaultLengthMax},
		ParamXi:     {defaultDampingMin, defaultDampingMax},
	}
}

// Validate checks every interval is finite, positive and non-empty.
func (b Bounds) Validate() error {
	for i, bd := range b {
		if !mathutil.IsFinite(bd.Lo) || !mathutil.IsFinite(bd.Hi) {
			return fmt.Errorf("%w: %s bound must be finite", ErrInvalidBounds, paramNames[i])
		}
		if bd.Lo <= 0 {
			return fmt.Errorf("%w: %s lower bound must be > 0, got %g", ErrInvalidBounds, paramNames[i], bd.Lo)
		}
		if bd.Hi <= bd.Lo {
			return fmt.Errorf("%w: %s upper bound %g must exceed lower bound %g", ErrInvalidBounds, paramNames[i], bd.Hi, bd.Lo)
		}
	}
	return nil
}

// Clip limits every coordinate of v to its interval.
func (b Bounds) Clip(v Vector) Vector {
	for i := range v {
		v[i] = mathutil.Clip(v[i], b[i].Lo, b[i].Hi)
	}
	return v
}

// Contains reports whether v lies inside b.
func (b Bounds) Contains(v Vector) bool {
	for i, x := range v {
		if math.IsNaN(x) || x < b[i].Lo || x > b[i].Hi {
			return false
		}
	}
	return true
}

// toUnbounded maps v into the logistic coordinates used by local search.
func (b Bounds) toUnbounded(v Vector) []float64 {
	u := make([]float64, NumParams)
	for i := range v {
		u[i] = mathutil.ToUnbounded(v[i], b[i].Lo, b[i].Hi)
	}
	return u
}

// fromUnbounded is the inverse of toUnbounded.
func (b Bounds) fromUnbounded(u []float64) Vector {
	var v Vector
	for i := range v {
		v[i] = mathutil.ToBounded(u[i], b[i].Lo, b[i].Hi)
	}
	return v
}
