package helmholtz

import (
	"fmt"

	"github.com/tphakala/go-helmholtz/internal/audition"
	"github.com/tphakala/go-helmholtz/internal/export"
)

// Table lays out the sweep of r as export columns, with the summary figures
// as named fields. Undefined Q values are left off the summary.
func (r *Record) Table() export.Table {
	t := export.Table{
		Columns: []export.Column{
			{Name: "frequency", Values: r.Frequencies},
			{Name: "absorption_area", Values: r.AbsorptionArea},
			{Name: "max_absorption_area", Values: r.MaxAbsorptionArea},
			{Name: "z_radiation_real", Values: r.ZRadiationReal},
			{Name: "z_radiation_imag", Values: r.ZRadiationImag},
			{Name: "z_stiff_mass_real", Values: r.ZStiffMassReal},
			{Name: "z_stiff_mass_imag", Values: r.ZStiffMassImag},
			{Name: "z_friction", Values: r.ZFriction},
		},
		Summary: []export.Field{
			{Name: "resonance_frequency", Value: r.ResonanceFrequency},
			{Name: "peak_absorption_area", Value: r.PeakAbsorptionArea},
			{Name: "z_porous", Value: r.ZPorous},
			{Name: "temperature_c", Value: r.Medium.TemperatureC},
			{Name: "humidity", Value: r.Medium.Humidity},
			{Name: "density", Value: r.Medium.Density},
			{Name: "speed_of_sound", Value: r.Medium.SpeedOfSound},
		},
	}
	if r.QFactor != nil {
		t.Summary = append(t.Summary,
			export.Field{Name: "q_factor", Value: *r.QFactor},
			export.Field{Name: "f_q_low", Value: *r.FQLow},
			export.Field{Name: "f_q_high", Value: *r.FQHigh},
		)
	}
	if r.RadiationLimit != nil {
		t.Summary = append(t.Summary, export.Field{Name: "radiation_limit", Value: *r.RadiationLimit})
	}
	return t
}

// Export writes the sweep to path as CSV or XLSX, chosen by extension.
func (r *Record) Export(path string) error {
	return export.Save(path, r.Table())
}

// ImpulseResponse renders the absorption curve as a centred zero-phase
// impulse response of length samples.
func (r *Record) ImpulseResponse(sampleRate, length int) ([]float64, error) {
	ir, err := audition.ImpulseResponse(r.Frequencies, r.AbsorptionArea, sampleRate, length)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return ir, nil
}

// Ring synthesises the free decay of the resonance. It fails with
// ErrNumericalDegeneracy when the Q-factor is undefined.
func (r *Record) Ring(sampleRate int, seconds float64) ([]float64, error) {
	if r.QFactor == nil {
		return nil, fmt.Errorf("%w: Q-factor undefined, cannot synthesise decay", ErrNumericalDegeneracy)
	}
	x, err := audition.Ring(r.ResonanceFrequency, *r.QFactor, sampleRate, seconds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return x, nil
}
