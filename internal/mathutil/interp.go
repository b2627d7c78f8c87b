// Package mathutil provides small numerical helpers shared by the acoustic
// engine and the optimizer: linear zero-crossing interpolation, table lookup,
// clipping, and the bounded/unbounded parameter mapping used by local search.
package mathutil

import (
	"math"
	"sort"
)

// Crossing returns the abscissa where the straight line through (x0, y0) and
// (x1, y1) crosses zero:
//
//	x = x0 - y0·(x1-x0)/(y1-y0)
//
// If y0 == y1 the segment is flat and the midpoint is returned.
func Crossing(x0, x1, y0, y1 float64) float64 {
	if y1 == y0 {
		return (x0 + x1) / halfDivisor
	}
	return x0 - y0*(x1-x0)/(y1-y0)
}

// Interpolate linearly interpolates the table (xs, ys) at x.
// xs must be sorted ascending. Points outside [xs[0], xs[n-1]] return
// outside, which lets callers choose between zero-padding and clamping.
func Interpolate(xs, ys []float64, x, outside float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) || x < xs[0] || x > xs[n-1] {
		return outside
	}

	i := sort.SearchFloat64s(xs, x)
	if i < n && xs[i] == x {
		return ys[i]
	}
	// xs[i-1] < x < xs[i]
	x0, x1 := xs[i-1], xs[i]
	t := (x - x0) / (x1 - x0)
	return ys[i-1] + t*(ys[i]-ys[i-1])
}

// Clip limits v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
