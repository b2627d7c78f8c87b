package helmholtz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize_SmallRun(t *testing.T) {
	if testing.Short() {
		t.Skip("optimization in short mode")
	}

	calls := 0
	rep, err := Optimize(context.Background(), 100, 8,
		WithStarts(4),
		WithWorkers(2),
		WithSeed(3),
		WithValuesPerOctave(24),
		WithMaxEvaluations(3000),
		WithProgress(func(done, total int, _ OptimizationResult) {
			calls++
			assert.Equal(t, 4, total)
		}),
	)
	require.NoError(t, err)
	require.NotEmpty(t, rep.Ranked)

	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, rep.Starts)
	assert.Equal(t, rep.Ranked[0], rep.Best)
	assert.True(t, rep.Best.Converged)
	for _, r := range rep.Ranked {
		assert.LessOrEqual(t, rep.Best.Score, r.Score)
	}

	// The best vector re-simulates through the public forward path.
	rec, err := Simulate(rep.Best.Config())
	require.NoError(t, err)
	assert.InEpsilon(t, rep.Best.ResonanceFrequency, rec.ResonanceFrequency, 0.05)
}

func TestOptimize_NoSolution(t *testing.T) {
	b := DefaultBounds()
	b[0] = Bound{Lo: 0.4, Hi: 0.2}

	rep, err := Optimize(context.Background(), 100, 5, WithStarts(3), WithBounds(b))
	require.ErrorIs(t, err, ErrNoSolution)
	require.NotNil(t, rep)
	assert.Equal(t, 3, rep.Failures)
	assert.Empty(t, rep.Ranked)
}

func TestOptimize_InvalidTargets(t *testing.T) {
	_, err := Optimize(context.Background(), -1, 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOptimizationResult_Config(t *testing.T) {
	r := OptimizationResult{X: 0.5, Y: 0.3, Z: 0.2, Radius: 0.05, Length: 0.1, Xi: 50}
	cfg := r.Config()
	require.NoError(t, cfg.Validate())

	preset, err := Preset("01")
	require.NoError(t, err)
	assert.Equal(t, preset.Geometry, cfg.Geometry)
	assert.Equal(t, preset.Aperture, cfg.Aperture)
}
