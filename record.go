package helmholtz

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/go-helmholtz/internal/acoustic"
)

// MediumRecord lists the air properties a simulation used.
type MediumRecord struct {
	TemperatureC       float64 `json:"temperature_c"`
	TemperatureK       float64 `json:"temperature_k"`
	Humidity           float64 `json:"humidity"`
	Density            float64 `json:"density"`
	SpeedOfSound       float64 `json:"speed_of_sound"`
	KinematicViscosity float64 `json:"kinematic_viscosity"`
}

// Summary holds the resonance figures reduced from an absorption curve.
// QFactor, FQLow and FQHigh are nil when the half-power points lie outside
// the sweep.
type Summary struct {
	ResonanceFrequency float64  `json:"resonance_frequency"`
	PeakAbsorptionArea float64  `json:"peak_absorption_area"`
	QFactor            *float64 `json:"q_factor"`
	FQLow              *float64 `json:"f_q_low"`
	FQHigh             *float64 `json:"f_q_high"`
}

// Record is the serializable result of one simulation. Complex impedances are
// stored as separate real and imaginary arrays.
type Record struct {
	Config Config       `json:"config"`
	Medium MediumRecord `json:"medium"`

	Frequencies []float64 `json:"frequencies"`

	ZPorous        float64   `json:"z_porous"`
	ZRadiationReal []float64 `json:"z_radiation_real"`
	ZRadiationImag []float64 `json:"z_radiation_imag"`
	ZStiffMassReal []float64 `json:"z_stiff_mass_real"`
	ZStiffMassImag []float64 `json:"z_stiff_mass_imag"`
	ZFriction      []float64 `json:"z_friction"`

	AbsorptionArea    []float64 `json:"absorption_area"`
	MaxAbsorptionArea []float64 `json:"max_absorption_area"`

	Summary

	// RadiationLimit is the highest frequency at which the radiation
	// impedance approximation holds, nil if none in the sweep.
	RadiationLimit *float64 `json:"radiation_limit"`
}

// Simulate validates cfg, runs the acoustic engine and returns the record.
func Simulate(cfg Config) (*Record, error) {
	res, grid, err := cfg.build()
	if err != nil {
		return nil, err
	}
	an, err := acoustic.Analyze(res, grid)
	if err != nil {
		return nil, err
	}
	return newRecord(cfg, an), nil
}

func newRecord(cfg Config, an *acoustic.Analysis) *Record {
	m := an.Grid.Medium()
	rec := &Record{
		Config: cfg,
		Medium: MediumRecord{
			TemperatureC:       m.TemperatureCelsius(),
			TemperatureK:       m.TemperatureKelvin(),
			Humidity:           m.RelativeHumidity(),
			Density:            m.Density(),
			SpeedOfSound:       m.SpeedOfSound(),
			KinematicViscosity: m.KinematicViscosity(),
		},
		Frequencies:       an.Grid.Frequencies(),
		ZPorous:           an.Porous,
		ZFriction:         an.Friction,
		AbsorptionArea:    an.AbsorptionArea,
		MaxAbsorptionArea: an.MaxAbsorptionArea,
		Summary:           summarize(an.Reduction),
	}
	rec.ZRadiationReal, rec.ZRadiationImag = splitComplex(an.Radiation)
	rec.ZStiffMassReal, rec.ZStiffMassImag = splitComplex(an.StiffnessMass)
	if an.RadiationLimitOK {
		rec.RadiationLimit = ptr(an.RadiationLimit)
	}
	return rec
}

func summarize(red acoustic.Reduction) Summary {
	s := Summary{
		ResonanceFrequency: red.ResonanceFrequency,
		PeakAbsorptionArea: red.PeakAbsorptionArea,
	}
	if red.QDefined {
		s.QFactor = ptr(red.Q)
		s.FQLow = ptr(red.LowerHalfPower)
		s.FQHigh = ptr(red.UpperHalfPower)
	}
	return s
}

func splitComplex(z []complex128) (re, im []float64) {
	re = make([]float64, len(z))
	im = make([]float64, len(z))
	for i, v := range z {
		re[i] = real(v)
		im[i] = imag(v)
	}
	return re, im
}

func ptr(v float64) *float64 { return &v }

// Reanalyze reduces the stored absorption curve again without re-running the
// engine.
func (r *Record) Reanalyze() (Summary, error) {
	red, err := acoustic.Reduce(r.Frequencies, r.AbsorptionArea)
	if err != nil {
		return Summary{}, err
	}
	return summarize(red), nil
}

// Resimulate runs the engine again on the stored configuration.
func (r *Record) Resimulate() (*Record, error) {
	return Simulate(r.Config)
}

// WriteJSON encodes r as indented JSON. Floats are written in their shortest
// form that parses back to the identical value.
func (r *Record) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

// ReadJSON decodes a record written by WriteJSON.
func ReadJSON(rd io.Reader) (*Record, error) {
	var rec Record
	if err := json.NewDecoder(rd).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decode record: %w", ErrValidation, err)
	}
	if len(rec.Frequencies) != len(rec.AbsorptionArea) {
		return nil, fmt.Errorf("%w: record has %d frequencies but %d absorption values",
			ErrValidation, len(rec.Frequencies), len(rec.AbsorptionArea))
	}
	return &rec, nil
}

// SaveJSON writes r to path.
func SaveJSON(path string, r *Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return r.WriteJSON(f)
}

// LoadJSON reads a record from path.
func LoadJSON(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
