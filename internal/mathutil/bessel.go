package mathutil

// BesselI0 computes the modified Bessel function of the first kind, order
// zero, by its power series:
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// The series converges for all x; terms are summed until they no longer
// change the result.
func BesselI0(x float64) float64 {
	half := x / halfDivisor
	sum, term := 1.0, 1.0
	for k := 1; k < besselMaxTerms; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < sum*besselTolerance {
			break
		}
	}
	return sum
}
