package optimizer

import "time"

// Objective weights and sweep
const (
	frequencyWeight = 1000.0 // per decade of resonance deviation
	qWeight         = 500.0  // per squared relative Q deviation

	// FailureScore is returned for any vector that cannot be simulated or
	// whose Q-factor is undefined.
	FailureScore = 1e12

	sweepLowFactor  = 0.001 // sweep starts at target·0.001
	sweepHighFactor = 10.0  // and ends at target·10

	DefaultValuesPerOctave = 300
)

// Default parameter bounds
const (
	defaultCavityMin  = 0.1  // m
	defaultCavityMax  = 1.0  // m
	defaultRadiusMin  = 0.01 // m
	defaultRadiusMax  = 0.1  // m
	defaultLengthMin  = 0.01 // m
	defaultLengthMax  = 0.3  // m
	defaultDampingMin = 1.0
	defaultDampingMax = 5000.0

	// Damping coefficient used by informed initial guesses
	informedDamping = 50.0

	// Sum of the open inner (0.6) and flanged outer (0.85) tube end corrections
	endCorrectionFactor = 1.45
)

// Local search
const (
	simplexSize        = 0.5 // initial simplex edge in unbounded coordinates
	convergeAbsolute   = 1e-6
	convergeRelative   = 1e-6
	convergeIterations = 40

	DefaultStarts         = 200
	DefaultMaxEvaluations = 2000
	DefaultTaskTimeout    = 2 * time.Minute
)
