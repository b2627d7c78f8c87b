// Package testutil provides reusable test helper functions for acoustic and optimizer tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance  = 1e-10
	PhysicalTolerance = 0.05 // a few percent, for empirical air properties
	GridTolerance     = 1e-9 // relative, for log-spaced grid endpoints
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%g is outside range [%g, %g]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertStrictlyIncreasing verifies that every element is greater than its predecessor.
func AssertStrictlyIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if !(s[i] > s[i-1]) {
			return assert.Fail(t, "not strictly increasing",
				"s[%d]=%g <= s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
		relError, tolerance, expected, actual)
}

// AssertSlicesRelative verifies elementwise relative agreement of two slices.
func AssertSlicesRelative(t *testing.T, expected, actual []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !AssertRelativeError(t, expected[i], actual[i], tolerance, "index %d", i) {
			return false
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %g is outside range [%g, %g]", value, minVal, maxVal)
	}
	return true
}

// Lorentzian returns a single-peaked curve 1/(1+((f-f0)/halfWidth)²) sampled at freqs.
// Its half-maximum points lie exactly at f0 ± halfWidth, so Q = f0/(2·halfWidth).
func Lorentzian(freqs []float64, f0, halfWidth float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		d := (f - f0) / halfWidth
		out[i] = 1 / (1 + d*d)
	}
	return out
}

// LinearGrid returns n evenly spaced points on [lo, hi].
func LinearGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
