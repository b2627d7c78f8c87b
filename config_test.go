package helmholtz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Sweep.Diffuse)
	assert.Equal(t, 100, cfg.Sweep.ValuesPerOctave)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		kind   error
		field  string
	}{
		{"unknown geometry", func(c *Config) { c.Geometry.Form = "sphere" }, ErrConfiguration, "geometry.form"},
		{"unknown aperture", func(c *Config) { c.Aperture.Form = "round" }, ErrConfiguration, "aperture.form"},
		{"unknown ending", func(c *Config) { c.Aperture.OuterEnding = "baffle" }, ErrConfiguration, "aperture.outer_ending"},
		{"negative cavity", func(c *Config) { c.Geometry.Y = -1 }, ErrValidation, "geometry.y"},
		{"cylinder dims on cuboid", func(c *Config) { c.Geometry.Height = 0.3 }, ErrValidation, "geometry.height"},
		{"damping without xi", func(c *Config) { c.Aperture.Xi = 0 }, ErrValidation, "aperture.xi"},
		{"humidity", func(c *Config) { c.Conditions.Humidity = 1.5 }, ErrValidation, "medium.humidity"},
		{"temperature", func(c *Config) { c.Conditions.Temperature = 100 }, ErrValidation, "medium.temperature"},
		{"inverted sweep", func(c *Config) { c.Sweep.MinFrequency = 1000 }, ErrValidation, "simulation.max_frequency"},
		{"oversized sweep", func(c *Config) { c.Sweep.ValuesPerOctave = 1 << 45 }, ErrValidation, "simulation.values_per_octave"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var fe *FieldError
			require.True(t, errors.As(err, &fe), "error should name the field: %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestParseConfig_YAML(t *testing.T) {
	data := []byte(`
geometry:
  form: cylinder
  radius: 0.1
  height: 0.2
aperture:
  form: slit
  length: 0.02
  width: 0.03
  height: 0.6
  inner_ending: flange
conditions:
  temperature: 10
simulation_parameters:
  values_per_octave: 48
`)
	cfg, err := ParseConfig(data, ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "cylinder", cfg.Geometry.Form)
	assert.Equal(t, 0.6, cfg.Aperture.Height)
	assert.Equal(t, "flange", cfg.Aperture.InnerEnding)
	assert.Equal(t, 10.0, cfg.Conditions.Temperature)
	assert.Equal(t, 0.5, cfg.Conditions.Humidity, "absent fields keep defaults")
	assert.Equal(t, 48, cfg.Sweep.ValuesPerOctave)
	assert.Equal(t, 500.0, cfg.Sweep.MaxFrequency)
	assert.True(t, cfg.Sweep.Diffuse)
	require.NoError(t, cfg.Validate())
}

func TestParseConfig_UnknownField(t *testing.T) {
	_, err := ParseConfig([]byte(`{"geometry": {"form": "cuboid", "w": 1}}`), ".json")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseConfig([]byte("geometry:\n  form: cuboid\n  w: 1\n"), ".yml")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resonator.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"geometry": {"form": "cuboid", "x": 0.5, "y": 0.3, "z": 0.2},
		"aperture": {"form": "tube", "length": 0.1, "radius": 0.05, "damping": false},
		"conditions": {"temperature": 25, "humidity": 0.4, "speed_of_sound": 340}
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Conditions.SpeedOfSound)
	assert.Equal(t, 340.0, *cfg.Conditions.SpeedOfSound)
	require.NoError(t, cfg.Validate())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
