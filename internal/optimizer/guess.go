package optimizer

import (
	"math"
	"math/rand/v2"
)

// InitialGuesses returns n starting vectors inside b. The first ⌈n/2⌉ are
// informed by the lumped-element resonance formula, the rest are uniform.
// speedOfSound is the medium's c in m/s.
func InitialGuesses(rng *rand.Rand, n int, b Bounds, t Targets, speedOfSound float64) []Vector {
	informed := (n + 1) / 2
	out := make([]Vector, 0, n)
	for i := range n {
		if i < informed {
			out = append(out, InformedGuess(rng, b, t.Frequency, speedOfSound))
		} else {
			out = append(out, UniformGuess(rng, b))
		}
	}
	return out
}

// UniformGuess draws every coordinate uniformly within its bound.
func UniformGuess(rng *rand.Rand, b Bounds) Vector {
	var v Vector
	for i, bd := range b {
		v[i] = bd.Lo + rng.Float64()*(bd.Hi-bd.Lo)
	}
	return v
}

// InformedGuess draws a uniform vector, then solves
//
//	f = c/(2π)·√(S/(V·L_eff)),  S = πr²,  L_eff = L + 1.45·r
//
// for one randomly chosen unknown among x, y, z, radius and length, clipping
// the solution into its bound. The damping coefficient starts at 50.
func InformedGuess(rng *rand.Rand, b Bounds, frequency, speedOfSound float64) Vector {
	v := UniformGuess(rng, b)

	// K = S/(V·L_eff) required for the target frequency
	k := math.Pow(2*math.Pi*frequency/speedOfSound, 2)

	x, y, z := v[ParamX], v[ParamY], v[ParamZ]
	r, l := v[ParamRadius], v[ParamLength]
	area := math.Pi * r * r
	volume := x * y * z

	unknown := rng.IntN(ParamXi)
	switch unknown {
	case ParamX, ParamY, ParamZ:
		needed := area / (k * (l + endCorrectionFactor*r))
		v[unknown] = needed * v[unknown] / volume
	case ParamRadius:
		// π·r² − 1.45·K·V·r − K·V·L = 0
		a := endCorrectionFactor * k * volume
		v[ParamRadius] = (a + math.Sqrt(a*a+4*math.Pi*k*volume*l)) / (2 * math.Pi)
	case ParamLength:
		v[ParamLength] = area/(k*volume) - endCorrectionFactor*r
	}

	v[ParamXi] = informedDamping
	return b.Clip(v)
}
