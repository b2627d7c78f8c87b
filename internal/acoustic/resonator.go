package acoustic

import "math"

// Resonator couples one cavity to one aperture.
type Resonator struct {
	Geometry Geometry
	Aperture Aperture
}

// NewResonator pairs g and a.
func NewResonator(g Geometry, a Aperture) Resonator {
	return Resonator{Geometry: g, Aperture: a}
}

// ClassicalFrequency returns the lumped-element estimate
// f = c/(2π)·√(S/(V·L_eff)) for this resonator in medium m.
func (r Resonator) ClassicalFrequency(m Medium) float64 {
	return ClassicalFrequency(m.SpeedOfSound(), r.Aperture.Area(), r.Geometry.Volume(), r.Aperture.EffectiveLength())
}

// ClassicalFrequency evaluates f = c/(2π)·√(S/(V·L_eff)).
func ClassicalFrequency(speedOfSound, area, volume, effectiveLength float64) float64 {
	return speedOfSound / (2 * math.Pi) * math.Sqrt(area/(volume*effectiveLength))
}
