package acoustic

import (
	"math"
)

// Impedances holds the four acoustic impedance contributions of a resonator
// across one frequency grid.
type Impedances struct {
	// Porous is the frequency-invariant flow resistance ξ·L/S, zero without damping.
	Porous float64

	// Radiation is the outer radiation impedance per frequency.
	Radiation []complex128

	// StiffnessMass combines cavity stiffness and aperture air mass per frequency.
	StiffnessMass []complex128

	// Friction is the viscous boundary-layer resistance per frequency,
	// zero above FrictionCutoff.
	Friction []float64

	// RadiationLimit is the highest grid frequency with k·r < 0.5.
	// RadiationLimitOK is false when no grid frequency satisfies it.
	RadiationLimit   float64
	RadiationLimitOK bool

	// FrictionCutoff is the last grid index with k·r < 0.2, or -1.
	FrictionCutoff int
}

// ComputeImpedances evaluates every impedance term of r over g.
func ComputeImpedances(r Resonator, g *Grid) Impedances {
	limit, ok := RadiationLimit(r.Aperture, g)
	return Impedances{
		Porous:           PorousImpedance(r.Aperture),
		Radiation:        RadiationImpedance(r.Aperture, g),
		StiffnessMass:    StiffnessMassImpedance(r, g),
		Friction:         FrictionImpedance(r.Aperture, g),
		RadiationLimit:   limit,
		RadiationLimitOK: ok,
		FrictionCutoff:   lastIndexBelow(g.Wavenumbers(), r.Aperture.Radius(), frictionKRLimit),
	}
}

// PorousImpedance returns ξ·L/S when damping is enabled, else 0.
func PorousImpedance(a Aperture) float64 {
	if !a.Damping() {
		return 0
	}
	return a.Xi() * a.Length() / a.Area()
}

// RadiationImpedance returns ρc·(α·k²r² + j·k·Δl_out) with α = 1/(4π) for an
// open outer ending and 1/(2π) for a flanged one. The approximation holds
// only up to RadiationLimit; values above it are returned unmodified.
func RadiationImpedance(a Aperture, g *Grid) []complex128 {
	m := g.Medium()
	rhoC := m.CharacteristicImpedance()
	r := a.Radius()
	dl := a.OuterEndCorrection()

	alpha := 1 / (4 * math.Pi)
	if a.OuterEnding() == EndingFlange {
		alpha = 1 / (2 * math.Pi)
	}

	k := g.Wavenumbers()
	z := make([]complex128, len(k))
	for i, ki := range k {
		z[i] = complex(rhoC*alpha*ki*ki*r*r, rhoC*ki*dl)
	}
	return z
}

// RadiationLimit reports the highest grid frequency at which k·r < 0.5.
func RadiationLimit(a Aperture, g *Grid) (float64, bool) {
	i := lastIndexBelow(g.Wavenumbers(), a.Radius(), radiationKRLimit)
	if i < 0 {
		return 0, false
	}
	return g.Frequencies()[i], true
}

// StiffnessMassImpedance returns ρc²/(jωV) + jωρ·(L + Δl_in + Δl_out)/S.
func StiffnessMassImpedance(r Resonator, g *Grid) []complex128 {
	m := g.Medium()
	rho := m.Density()
	c := m.SpeedOfSound()
	v := r.Geometry.Volume()
	massPerOmega := rho * r.Aperture.EffectiveLength() / r.Aperture.Area()
	stiffness := rho * c * c / v

	omega := g.AngularFrequencies()
	z := make([]complex128, len(omega))
	for i, w := range omega {
		// 1/(jω) = -j/ω
		z[i] = complex(0, w*massPerOmega-stiffness/w)
	}
	return z
}

// FrictionImpedance returns 8·ν·ρ·L/(r²·S) up to the last index with
// k·r < 0.2 and zero beyond it. All samples are zero if no index qualifies.
func FrictionImpedance(a Aperture, g *Grid) []float64 {
	m := g.Medium()
	r := a.Radius()
	value := frictionFactor * m.KinematicViscosity() * m.Density() / (r * r) * a.Length() / a.Area()

	z := make([]float64, g.Len())
	cutoff := lastIndexBelow(g.Wavenumbers(), r, frictionKRLimit)
	for i := 0; i <= cutoff; i++ {
		z[i] = value
	}
	return z
}

// lastIndexBelow returns the last index i with k[i]·r < limit, or -1.
func lastIndexBelow(k []float64, r, limit float64) int {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i]*r < limit {
			return i
		}
	}
	return -1
}
