package mathutil

import "math"

// ToBounded maps an unconstrained coordinate u onto the open interval (lo, hi)
// with the logistic function:
//
//	x = lo + (hi-lo) / (1 + e^-u)
//
// Unconstrained local search methods can then explore freely while every
// evaluated point honours the bounds.
func ToBounded(u, lo, hi float64) float64 {
	return lo + (hi-lo)/(1+math.Exp(-u))
}

// ToUnbounded is the inverse of ToBounded. x is first clipped to a point
// strictly inside (lo, hi) so the result is always finite.
func ToUnbounded(x, lo, hi float64) float64 {
	width := hi - lo
	eps := boundEpsilon * width
	x = Clip(x, lo+eps, hi-eps)
	return math.Log((x - lo) / (hi - x))
}
