package optimizer

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-helmholtz/internal/acoustic"
)

const testSpeedOfSound = 343.4

func TestInitialGuesses_InsideBounds(t *testing.T) {
	b := DefaultBounds()
	rng := rand.New(rand.NewPCG(7, 11))
	guesses := InitialGuesses(rng, 101, b, Targets{Frequency: 120, Q: 4}, testSpeedOfSound)

	require.Len(t, guesses, 101)
	informed := 0
	for _, g := range guesses {
		assert.True(t, b.Contains(g), "%v", g)
		if g[ParamXi] == informedDamping {
			informed++
		}
	}
	assert.Equal(t, 51, informed, "first ⌈n/2⌉ guesses are informed")
}

func TestInitialGuesses_Deterministic(t *testing.T) {
	b := DefaultBounds()
	tg := Targets{Frequency: 80, Q: 3}
	a := InitialGuesses(rand.New(rand.NewPCG(1, 2)), 20, b, tg, testSpeedOfSound)
	c := InitialGuesses(rand.New(rand.NewPCG(1, 2)), 20, b, tg, testSpeedOfSound)
	assert.Equal(t, a, c)
}

// TestInformedGuess_HitsTarget verifies unclipped informed guesses satisfy the
// lumped-element resonance formula for the target frequency.
func TestInformedGuess_HitsTarget(t *testing.T) {
	b := DefaultBounds()
	rng := rand.New(rand.NewPCG(3, 5))
	const target = 150.0

	hits := 0
	for range 200 {
		v := InformedGuess(rng, b, target, testSpeedOfSound)
		area := math.Pi * v[ParamRadius] * v[ParamRadius]
		volume := v[ParamX] * v[ParamY] * v[ParamZ]
		leff := v[ParamLength] + endCorrectionFactor*v[ParamRadius]
		f := acoustic.ClassicalFrequency(testSpeedOfSound, area, volume, leff)

		if math.Abs(f-target)/target < 1e-9 {
			hits++
		} else {
			assert.True(t, atAnyBound(b, v), "a miss must come from clipping: %v", v)
		}
	}
	assert.Positive(t, hits)
}

func atAnyBound(b Bounds, v Vector) bool {
	for i := range ParamXi {
		if v[i] == b[i].Lo || v[i] == b[i].Hi {
			return true
		}
	}
	return false
}
