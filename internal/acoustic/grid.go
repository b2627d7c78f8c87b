package acoustic

import (
	"fmt"
	"math"

	"github.com/tphakala/go-helmholtz/internal/simdops"
	"gonum.org/v1/gonum/floats"
)

// GridSpec configures the frequency sweep.
type GridSpec struct {
	MinFrequency    float64 // Hz, > 0
	MaxFrequency    float64 // Hz, > MinFrequency
	ValuesPerOctave int     // samples per frequency doubling
	AngleDegrees    float64 // angle of incidence, ignored when Diffuse
	Diffuse         bool
}

// DefaultGridSpec returns a diffuse 0.01…500 Hz sweep at 100 values per octave.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		MinFrequency:    DefaultMinFrequency,
		MaxFrequency:    DefaultMaxFrequency,
		ValuesPerOctave: DefaultValuesPerOctave,
		Diffuse:         true,
	}
}

// Grid is a validated frequency sweep with its derived vectors for one medium.
type Grid struct {
	medium Medium
	spec   GridSpec

	frequencies []float64
	omega       []float64 // angular frequency
	wavenumber  []float64
	wavelength  []float64
}

// FrequencyCount returns round(log2(fmax/fmin)·valuesPerOctave).
func FrequencyCount(minFrequency, maxFrequency float64, valuesPerOctave int) int {
	return int(math.Round(math.Log2(maxFrequency/minFrequency) * float64(valuesPerOctave)))
}

// NewGrid validates spec and derives frequencies, ω, k and λ for medium m.
// A diffuse sweep always has a zero angle of incidence.
func NewGrid(m Medium, spec GridSpec) (*Grid, error) {
	if err := requirePositive("simulation.min_frequency", spec.MinFrequency); err != nil {
		return nil, err
	}
	if err := requirePositive("simulation.max_frequency", spec.MaxFrequency); err != nil {
		return nil, err
	}
	if spec.MinFrequency >= spec.MaxFrequency {
		return nil, invalid("simulation.max_frequency", "must be greater than min_frequency", spec.MaxFrequency)
	}
	if spec.ValuesPerOctave <= 0 {
		return nil, invalid("simulation.values_per_octave", "must be > 0", spec.ValuesPerOctave)
	}
	if spec.Diffuse {
		spec.AngleDegrees = 0
	}
	if !(spec.AngleDegrees >= 0 && spec.AngleDegrees < maxAngleDegrees) {
		return nil, invalid("simulation.angle", "must be within [0, 90) degrees", spec.AngleDegrees)
	}
	if !(m.SpeedOfSound() > 0) {
		return nil, invalid("medium.speed_of_sound", "must be > 0", m.SpeedOfSound())
	}

	// Bound the count in float space so huge resolutions never reach int
	// conversion or allocation.
	if math.Log2(spec.MaxFrequency/spec.MinFrequency)*float64(spec.ValuesPerOctave) > maxGridPoints {
		return nil, invalid("simulation.values_per_octave", fmt.Sprintf("yields more than %d frequencies for the range", maxGridPoints), spec.ValuesPerOctave)
	}
	n := FrequencyCount(spec.MinFrequency, spec.MaxFrequency, spec.ValuesPerOctave)
	if n < minGridPoints {
		return nil, invalid("simulation.values_per_octave", "yields fewer than 2 frequencies for the range", spec.ValuesPerOctave)
	}

	g := &Grid{medium: m, spec: spec}
	g.derive(n)
	return g, nil
}

func (g *Grid) derive(n int) {
	c := g.medium.SpeedOfSound()

	g.frequencies = floats.LogSpan(make([]float64, n), g.spec.MinFrequency, g.spec.MaxFrequency)
	g.omega = simdops.Scaled(g.frequencies, 2*math.Pi)
	g.wavenumber = simdops.Scaled(g.omega, 1/c)

	g.wavelength = make([]float64, n)
	for i, w := range g.omega {
		g.wavelength[i] = c / (w / (2 * math.Pi))
	}
}

// Rederive recomputes the sweep from the stored inputs. The result is
// identical to the receiver.
func (g *Grid) Rederive() *Grid {
	fresh := &Grid{medium: g.medium, spec: g.spec}
	fresh.derive(len(g.frequencies))
	return fresh
}

func (g *Grid) Medium() Medium { return g.medium }
func (g *Grid) Spec() GridSpec { return g.spec }
func (g *Grid) Len() int       { return len(g.frequencies) }

// Frequencies returns the sweep in Hz. Callers must not modify the slice.
func (g *Grid) Frequencies() []float64 { return g.frequencies }

// AngularFrequencies returns ω = 2πf.
func (g *Grid) AngularFrequencies() []float64 { return g.omega }

// Wavenumbers returns k = ω/c.
func (g *Grid) Wavenumbers() []float64 { return g.wavenumber }

// Wavelengths returns λ = c/f.
func (g *Grid) Wavelengths() []float64 { return g.wavelength }

// AngleRadians returns the angle of incidence in radians.
func (g *Grid) AngleRadians() float64 { return g.spec.AngleDegrees * math.Pi / 180 }
