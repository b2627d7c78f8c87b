package mathutil

// Bounded parameter mapping constants
const (
	// boundEpsilon keeps inverse-mapped points strictly inside (lo, hi) so the
	// logit stays finite. Expressed as a fraction of the interval width.
	boundEpsilon = 1e-9
)

// Common division constants
const (
	halfDivisor = 2.0 // Division by 2
)

// Bessel series constants
const (
	besselTolerance = 1e-17 // relative size of the last term kept
	besselMaxTerms  = 500
)
