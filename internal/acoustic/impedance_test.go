package acoustic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-helmholtz/internal/testutil"
)

func newTestResonator(t *testing.T, radius float64, damping bool, xi float64) Resonator {
	t.Helper()
	g, err := NewCuboid(0.5, 0.3, 0.2)
	require.NoError(t, err)
	a, err := NewAperture(ApertureSpec{Form: FormTube, Length: 0.1, Radius: radius, Damping: damping, Xi: xi})
	require.NoError(t, err)
	return NewResonator(g, a)
}

func newTestGrid(t *testing.T, lo, hi float64, vpo int) *Grid {
	t.Helper()
	g, err := NewGrid(DefaultMedium(), GridSpec{MinFrequency: lo, MaxFrequency: hi, ValuesPerOctave: vpo, Diffuse: true})
	require.NoError(t, err)
	return g
}

func TestPorousImpedance(t *testing.T) {
	r := newTestResonator(t, 0.05, false, 0)
	assert.Zero(t, PorousImpedance(r.Aperture))

	r = newTestResonator(t, 0.05, true, 50)
	assert.InDelta(t, 50*0.1/(math.Pi*0.0025), PorousImpedance(r.Aperture), 1e-9)
}

// TestRadiationImpedance compares each sample with the closed form.
func TestRadiationImpedance(t *testing.T) {
	for _, outer := range []Ending{EndingOpen, EndingFlange} {
		a, err := NewAperture(ApertureSpec{Form: FormTube, Length: 0.1, Radius: 0.03, OuterEnding: outer})
		require.NoError(t, err)
		g := newTestGrid(t, 1, 1000, 12)
		m := g.Medium()

		alpha := 1 / (4 * math.Pi)
		if outer == EndingFlange {
			alpha = 1 / (2 * math.Pi)
		}

		z := RadiationImpedance(a, g)
		require.Len(t, z, g.Len())
		for i, k := range g.Wavenumbers() {
			rhoC := m.Density() * m.SpeedOfSound()
			testutil.AssertRelativeError(t, rhoC*alpha*k*k*0.03*0.03, real(z[i]), 1e-12)
			testutil.AssertRelativeError(t, rhoC*k*a.OuterEndCorrection(), imag(z[i]), 1e-12)
		}
	}
}

func TestRadiationLimit(t *testing.T) {
	r := newTestResonator(t, 0.1, false, 0)
	g := newTestGrid(t, 10, 500, 24)

	limit, ok := RadiationLimit(r.Aperture, g)
	require.True(t, ok)
	kLimit := 2 * math.Pi * limit / g.Medium().SpeedOfSound()
	assert.Less(t, kLimit*0.1, radiationKRLimit)

	// The next grid frequency must violate the condition.
	f := g.Frequencies()
	for i, v := range f {
		if v == limit {
			require.Less(t, i, len(f)-1)
			assert.GreaterOrEqual(t, g.Wavenumbers()[i+1]*0.1, radiationKRLimit)
		}
	}

	_, ok = RadiationLimit(r.Aperture, newTestGrid(t, 300, 500, 24))
	assert.False(t, ok, "no frequency satisfies k·r < 0.5")
}

// TestStiffnessMassImpedance verifies the reactance crosses zero at the
// lumped-element resonance.
func TestStiffnessMassImpedance(t *testing.T) {
	r := newTestResonator(t, 0.05, false, 0)
	g := newTestGrid(t, 10, 500, 48)
	z := StiffnessMassImpedance(r, g)

	f0 := r.ClassicalFrequency(g.Medium())
	for i, f := range g.Frequencies() {
		assert.Zero(t, real(z[i]))
		if f < f0 {
			assert.Negative(t, imag(z[i]), "stiffness dominates below resonance (f=%v)", f)
		} else if f > f0 {
			assert.Positive(t, imag(z[i]), "mass dominates above resonance (f=%v)", f)
		}
	}
}

func TestFrictionImpedance_Cutoff(t *testing.T) {
	r := newTestResonator(t, 0.1, false, 0)
	g := newTestGrid(t, 10, 500, 24)
	m := g.Medium()

	z := FrictionImpedance(r.Aperture, g)
	want := 8 * m.KinematicViscosity() * m.Density() / (0.1 * 0.1) * 0.1 / r.Aperture.Area()

	cutoff := ComputeImpedances(r, g).FrictionCutoff
	require.GreaterOrEqual(t, cutoff, 0)
	require.Less(t, cutoff, g.Len()-1, "cutoff should fall inside the sweep")

	for i, v := range z {
		kr := g.Wavenumbers()[i] * 0.1
		if i <= cutoff {
			assert.Less(t, kr, frictionKRLimit)
			testutil.AssertRelativeError(t, want, v, 1e-12)
		} else {
			assert.Zero(t, v)
		}
	}
}

func TestFrictionImpedance_AllAboveCutoff(t *testing.T) {
	r := newTestResonator(t, 0.1, false, 0)
	g := newTestGrid(t, 200, 500, 24)

	imp := ComputeImpedances(r, g)
	assert.Equal(t, -1, imp.FrictionCutoff)
	for _, v := range imp.Friction {
		assert.Zero(t, v)
	}
}
