package helmholtz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/go-helmholtz/internal/acoustic"
	"gopkg.in/yaml.v3"
)

// Config is the complete description of one simulation: the cavity, the
// aperture, the ambient air and the frequency sweep.
type Config struct {
	Geometry   GeometryConfig   `json:"geometry" yaml:"geometry"`
	Aperture   ApertureConfig   `json:"aperture" yaml:"aperture"`
	Conditions ConditionsConfig `json:"conditions" yaml:"conditions"`
	Sweep      SweepConfig      `json:"simulation_parameters" yaml:"simulation_parameters"`
}

// GeometryConfig describes the cavity.
// Form is "cylinder" (Radius, Height) or "cuboid" (X, Y, Z), all in metres.
type GeometryConfig struct {
	Form   string  `json:"form" yaml:"form"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	X      float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Z      float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// ApertureConfig describes the opening between cavity and outside.
type ApertureConfig struct {
	// Form is "tube" (Radius) or "slit" (Width, Height).
	Form   string  `json:"form" yaml:"form"`
	Length float64 `json:"length" yaml:"length"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Amount is the number of identical openings, 1 when zero.
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`

	// InnerEnding and OuterEnding are "open" or "flange".
	// Empty selects open inside and flange outside.
	InnerEnding string `json:"inner_ending,omitempty" yaml:"inner_ending,omitempty"`
	OuterEnding string `json:"outer_ending,omitempty" yaml:"outer_ending,omitempty"`

	// Damping enables porous material in the aperture with the
	// length-specific flow resistance Xi. Xi is required iff Damping is set.
	Damping bool    `json:"damping" yaml:"damping"`
	Xi      float64 `json:"xi,omitempty" yaml:"xi,omitempty"`
}

// ConditionsConfig describes the ambient air. Density and SpeedOfSound
// override the values derived from temperature and humidity.
type ConditionsConfig struct {
	Temperature  float64  `json:"temperature" yaml:"temperature"` // °C
	Humidity     float64  `json:"humidity" yaml:"humidity"`       // 0…1
	Density      *float64 `json:"density,omitempty" yaml:"density,omitempty"`
	SpeedOfSound *float64 `json:"speed_of_sound,omitempty" yaml:"speed_of_sound,omitempty"`
}

// SweepConfig describes the frequency grid.
type SweepConfig struct {
	MinFrequency    float64 `json:"min_frequency" yaml:"min_frequency"`
	MaxFrequency    float64 `json:"max_frequency" yaml:"max_frequency"`
	ValuesPerOctave int     `json:"values_per_octave" yaml:"values_per_octave"`
	Angle           float64 `json:"angle_of_incidence" yaml:"angle_of_incidence"` // degrees
	Diffuse         bool    `json:"diffuse" yaml:"diffuse"`
}

// DefaultConfig returns air at 20 °C / 50 % humidity, a diffuse 0.01…500 Hz
// sweep at 100 values per octave, and preset 01 as resonator.
func DefaultConfig() Config {
	return Config{
		Geometry: GeometryConfig{Form: "cuboid", X: 0.5, Y: 0.3, Z: 0.2},
		Aperture: ApertureConfig{Form: "tube", Length: 0.1, Radius: 0.05, Damping: true, Xi: 50},
		Conditions: ConditionsConfig{
			Temperature: acoustic.DefaultTemperatureC,
			Humidity:    acoustic.DefaultHumidity,
		},
		Sweep: DefaultSweep(),
	}
}

// DefaultSweep returns the default diffuse frequency sweep.
func DefaultSweep() SweepConfig {
	return SweepConfig{
		MinFrequency:    acoustic.DefaultMinFrequency,
		MaxFrequency:    acoustic.DefaultMaxFrequency,
		ValuesPerOctave: acoustic.DefaultValuesPerOctave,
		Diffuse:         true,
	}
}

// Validate checks the whole configuration by building every engine object.
func (c *Config) Validate() error {
	_, _, err := c.build()
	return err
}

// build converts the record into validated engine objects.
func (c *Config) build() (acoustic.Resonator, *acoustic.Grid, error) {
	medium, err := c.Conditions.medium()
	if err != nil {
		return acoustic.Resonator{}, nil, err
	}
	geo, err := c.Geometry.geometry()
	if err != nil {
		return acoustic.Resonator{}, nil, err
	}
	ap, err := c.Aperture.aperture()
	if err != nil {
		return acoustic.Resonator{}, nil, err
	}
	grid, err := acoustic.NewGrid(medium, acoustic.GridSpec{
		MinFrequency:    c.Sweep.MinFrequency,
		MaxFrequency:    c.Sweep.MaxFrequency,
		ValuesPerOctave: c.Sweep.ValuesPerOctave,
		AngleDegrees:    c.Sweep.Angle,
		Diffuse:         c.Sweep.Diffuse,
	})
	if err != nil {
		return acoustic.Resonator{}, nil, err
	}
	return acoustic.NewResonator(geo, ap), grid, nil
}

func (c ConditionsConfig) medium() (acoustic.Medium, error) {
	opts := []acoustic.MediumOption{
		acoustic.WithTemperature(c.Temperature),
		acoustic.WithHumidity(c.Humidity),
	}
	if c.Density != nil {
		opts = append(opts, acoustic.WithDensity(*c.Density))
	}
	if c.SpeedOfSound != nil {
		opts = append(opts, acoustic.WithSpeedOfSound(*c.SpeedOfSound))
	}
	return acoustic.NewMedium(opts...)
}

func (g GeometryConfig) geometry() (acoustic.Geometry, error) {
	shape, err := acoustic.ParseShape(g.Form)
	if err != nil {
		return acoustic.Geometry{}, err
	}
	return acoustic.NewGeometry(acoustic.GeometrySpec{
		Shape:  shape,
		Radius: g.Radius,
		Height: g.Height,
		X:      g.X,
		Y:      g.Y,
		Z:      g.Z,
	})
}

func (a ApertureConfig) aperture() (acoustic.Aperture, error) {
	form, err := acoustic.ParseForm(a.Form)
	if err != nil {
		return acoustic.Aperture{}, err
	}
	inner, err := acoustic.ParseEnding("aperture.inner_ending", a.InnerEnding)
	if err != nil {
		return acoustic.Aperture{}, err
	}
	outer, err := acoustic.ParseEnding("aperture.outer_ending", a.OuterEnding)
	if err != nil {
		return acoustic.Aperture{}, err
	}
	return acoustic.NewAperture(acoustic.ApertureSpec{
		Form:        form,
		Length:      a.Length,
		Amount:      a.Amount,
		Radius:      a.Radius,
		Width:       a.Width,
		Height:      a.Height,
		InnerEnding: inner,
		OuterEnding: outer,
		Damping:     a.Damping,
		Xi:          a.Xi,
	})
}

// LoadConfig reads a JSON or YAML configuration file. Absent conditions and
// sweep fields keep their defaults; geometry and aperture must be complete.
// Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data as JSON when ext is ".json" and as YAML otherwise.
func ParseConfig(data []byte, ext string) (Config, error) {
	defaults := DefaultConfig()
	cfg := Config{Conditions: defaults.Conditions, Sweep: defaults.Sweep}

	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: decode JSON config: %w", ErrValidation, err)
		}
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode YAML config: %w", ErrValidation, err)
	}
	return cfg, nil
}
