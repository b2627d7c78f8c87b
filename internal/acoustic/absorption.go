package acoustic

import (
	"fmt"
	"math"

	"github.com/tphakala/go-helmholtz/internal/mathutil"
	"github.com/tphakala/go-helmholtz/internal/simdops"
	"gonum.org/v1/gonum/floats"
)

// Reduction is the resonance summary of one absorption curve.
type Reduction struct {
	PeakIndex          int
	ResonanceFrequency float64 // Hz, frequency at the peak
	PeakAbsorptionArea float64 // m²

	// Half-power frequencies and Q. Valid only when QDefined is true.
	LowerHalfPower float64
	UpperHalfPower float64
	Q              float64
	QDefined       bool
}

// Analysis is the immutable result of simulating one resonator over one grid.
type Analysis struct {
	Resonator Resonator
	Grid      *Grid
	Impedances

	AbsorptionArea    []float64 // m² per frequency
	MaxAbsorptionArea []float64 // λ²/(2π) per frequency

	Reduction
}

// Analyze runs the complete simulation pipeline in one pass.
func Analyze(r Resonator, g *Grid) (*Analysis, error) {
	imp := ComputeImpedances(r, g)
	curve := AbsorptionArea(imp, g)

	red, err := Reduce(g.Frequencies(), curve)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Resonator:         r,
		Grid:              g,
		Impedances:        imp,
		AbsorptionArea:    curve,
		MaxAbsorptionArea: MaxAbsorptionArea(g),
		Reduction:         red,
	}, nil
}

// AbsorptionArea reduces the impedances to an absorption area per frequency:
//
//	A = Re(Z) / |Z + Z_rad|² · 2ρc / cos θ,  Z = Z_friction + Z_porous + Z_stiff_mass
//
// with θ = 0 for a diffuse field.
func AbsorptionArea(imp Impedances, g *Grid) []float64 {
	n := g.Len()
	m := g.Medium()

	factor := halfDivisor * m.CharacteristicImpedance()
	if !g.Spec().Diffuse {
		factor /= math.Cos(g.AngleRadians())
	}

	resistance := make([]float64, n)
	sum := make([]complex128, n)
	for i := range n {
		z := complex(imp.Friction[i]+imp.Porous, 0) + imp.StiffnessMass[i]
		resistance[i] = real(z)
		sum[i] = z + imp.Radiation[i]
	}

	magSq := make([]float64, n)
	simdops.SquaredMagnitude(magSq, sum)

	area := make([]float64, n)
	for i := range n {
		area[i] = resistance[i] / magSq[i]
	}
	simdops.Default().Scale(area, area, factor)
	return area
}

// MaxAbsorptionArea returns the theoretical limit λ²/(2π) per frequency.
func MaxAbsorptionArea(g *Grid) []float64 {
	lambda := g.Wavelengths()
	sq := make([]float64, len(lambda))
	for i, l := range lambda {
		sq[i] = l * l
	}
	return simdops.Scaled(sq, 1/(2*math.Pi))
}

// Reduce locates the resonance peak of curve and its half-power bandwidth.
//
// The half-power frequencies are the nearest sign changes of curve - peak/2
// below and above the peak, refined by linear interpolation. When either side
// never drops below half the peak within the sweep, Q is left undefined.
func Reduce(freqs, curve []float64) (Reduction, error) {
	if len(freqs) == 0 || len(freqs) != len(curve) {
		return Reduction{}, invalid("curve", fmt.Sprintf("must be non-empty and match %d frequencies", len(freqs)), len(curve))
	}
	for i, v := range curve {
		if !mathutil.IsFinite(v) {
			return Reduction{}, degenerate(fmt.Sprintf("absorption_area[%d]", i), "must be finite", v)
		}
	}

	peakIdx := floats.MaxIdx(curve)
	peak := curve[peakIdx]
	red := Reduction{
		PeakIndex:          peakIdx,
		ResonanceFrequency: freqs[peakIdx],
		PeakAbsorptionArea: peak,
	}
	if peak <= 0 {
		return red, nil
	}

	half := peak / halfDivisor
	diff := func(i int) float64 { return curve[i] - half }
	changes := func(i int) bool { return sign(diff(i)) != sign(diff(i+1)) }

	lower := -1
	for i := peakIdx - 1; i >= 0; i-- {
		if changes(i) {
			lower = i
			break
		}
	}
	upper := -1
	for i := peakIdx; i < len(curve)-1; i++ {
		if changes(i) {
			upper = i
			break
		}
	}
	if lower < 0 || upper < 0 {
		return red, nil
	}

	f1 := mathutil.Crossing(freqs[lower], freqs[lower+1], diff(lower), diff(lower+1))
	f2 := mathutil.Crossing(freqs[upper], freqs[upper+1], diff(upper), diff(upper+1))
	if !(f2 > f1) {
		return red, nil
	}

	red.LowerHalfPower = f1
	red.UpperHalfPower = f2
	red.Q = red.ResonanceFrequency / (f2 - f1)
	red.QDefined = true
	return red, nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// MaxAreaAtResonance returns λ²/(2π) at the resonance frequency.
func (a *Analysis) MaxAreaAtResonance() float64 {
	return a.MaxAbsorptionArea[a.PeakIndex]
}
