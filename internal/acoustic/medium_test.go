package acoustic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-helmholtz/internal/testutil"
)

const (
	// Reference air at 20 °C and 50 % relative humidity
	refDensity      = 1.2025234992364862
	refSpeedOfSound = 343.4262
	refViscosity    = 1.508047449476541e-05

	mediumTolerance = 1e-9
)

// TestDefaultMedium checks the 20 °C / 50 % scenario against reference values.
func TestDefaultMedium(t *testing.T) {
	m := DefaultMedium()

	assert.InDelta(t, 1.2, m.Density(), 0.05, "density should be about 1.2 kg/m³")
	assert.InDelta(t, 343.0, m.SpeedOfSound(), 343.0*0.02, "speed of sound should be about 343 m/s")

	testutil.AssertRelativeError(t, refDensity, m.Density(), mediumTolerance)
	testutil.AssertRelativeError(t, refSpeedOfSound, m.SpeedOfSound(), mediumTolerance)
	testutil.AssertRelativeError(t, refViscosity, m.KinematicViscosity(), mediumTolerance)

	assert.Equal(t, DefaultTemperatureC, m.TemperatureCelsius())
	assert.InDelta(t, 293.15, m.TemperatureKelvin(), 1e-12)
	assert.Equal(t, DefaultHumidity, m.RelativeHumidity())
	assert.InDelta(t, m.Density()*m.SpeedOfSound(), m.CharacteristicImpedance(), 1e-12)
}

// TestMedium_Deterministic verifies repeated construction yields identical values.
func TestMedium_Deterministic(t *testing.T) {
	conditions := []struct{ temp, humidity float64 }{
		{-50, 0}, {-10, 0.3}, {0, 1}, {20, 0.5}, {37.5, 0.9}, {60, 1},
	}

	for _, c := range conditions {
		a, err := NewMedium(WithTemperature(c.temp), WithHumidity(c.humidity))
		require.NoError(t, err)
		b, err := NewMedium(WithTemperature(c.temp), WithHumidity(c.humidity))
		require.NoError(t, err)

		assert.Equal(t, a, b, "T=%v φ=%v", c.temp, c.humidity)

		rho, err := Density(c.temp, c.humidity)
		require.NoError(t, err)
		assert.Equal(t, rho, a.Density())
		assert.Equal(t, SpeedOfSound(c.temp, c.humidity), a.SpeedOfSound())
		assert.Equal(t, KinematicViscosity(c.temp, rho), a.KinematicViscosity())
	}
}

// TestMedium_ExplicitValues verifies supplied constants bypass derivation.
func TestMedium_ExplicitValues(t *testing.T) {
	m, err := NewMedium(WithDensity(1.0), WithSpeedOfSound(300))
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.Density())
	assert.Equal(t, 300.0, m.SpeedOfSound())
	assert.Equal(t, KinematicViscosity(DefaultTemperatureC, 1.0), m.KinematicViscosity(),
		"viscosity follows the supplied density")
}

func TestMedium_Validation(t *testing.T) {
	tests := []struct {
		name  string
		opts  []MediumOption
		field string
	}{
		{"too cold", []MediumOption{WithTemperature(-51)}, "medium.temperature"},
		{"too hot", []MediumOption{WithTemperature(61)}, "medium.temperature"},
		{"NaN temperature", []MediumOption{WithTemperature(math.NaN())}, "medium.temperature"},
		{"negative humidity", []MediumOption{WithHumidity(-0.1)}, "medium.humidity"},
		{"humidity above one", []MediumOption{WithHumidity(1.01)}, "medium.humidity"},
		{"zero density", []MediumOption{WithDensity(0)}, "medium.density"},
		{"negative speed", []MediumOption{WithSpeedOfSound(-343)}, "medium.speed_of_sound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMedium(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestSpeedOfSound_Linear(t *testing.T) {
	assert.InDelta(t, 331.3, SpeedOfSound(0, 0), 1e-12)
	assert.InDelta(t, 331.3+0.606*10+0.0124, SpeedOfSound(10, 1), 1e-12)
}

func TestKinematicViscosity_DecreasesWithDensity(t *testing.T) {
	assert.Greater(t, KinematicViscosity(20, 1.0), KinematicViscosity(20, 1.2))
	assert.Greater(t, KinematicViscosity(40, 1.2), KinematicViscosity(0, 1.2),
		"air viscosity increases with temperature")
}
