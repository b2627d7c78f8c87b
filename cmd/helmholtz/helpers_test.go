package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-helmholtz"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, helmholtz.DefaultConfig(), cfg)

	cfg, err = loadConfig("", "05")
	require.NoError(t, err)
	want, err := helmholtz.Preset("05")
	require.NoError(t, err)
	assert.Equal(t, want, cfg)

	_, err = loadConfig("x.yaml", "01")
	assert.ErrorIs(t, err, errUsage)

	_, err = loadConfig("", "nope")
	assert.ErrorIs(t, err, helmholtz.ErrUnknownPreset)

	path := filepath.Join(t.TempDir(), "r.yaml")
	yaml := "geometry:\n  form: cylinder\n  radius: 0.1\n  height: 0.3\n" +
		"aperture:\n  form: tube\n  length: 0.05\n  radius: 0.02\n  damping: false\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err = loadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, "cylinder", cfg.Geometry.Form)
	assert.InDelta(t, 0.02, cfg.Aperture.Radius, 0)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "cuboid 0.5x0.3x0.2m, tube r=0.05m l=0.1m, damped xi=50", describe(helmholtz.DefaultConfig()))

	cfg := helmholtz.DefaultConfig()
	cfg.Geometry = helmholtz.GeometryConfig{Form: "cylinder", Radius: 0.1, Height: 0.2}
	cfg.Aperture = helmholtz.ApertureConfig{Form: "slit", Length: 0.01, Width: 0.1, Height: 0.005, Amount: 3}
	assert.Equal(t, "cylinder r=0.1m h=0.2m, slit 0.1x0.005m l=0.01m x3", describe(cfg))
}

func TestPrintSummary(t *testing.T) {
	rec, err := helmholtz.Simulate(helmholtz.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	printSummary(&buf, rec)
	out := buf.String()
	assert.Contains(t, out, "Resonance frequency:")
	assert.Contains(t, out, "Half-power band:")
	assert.NotContains(t, out, "undefined")

	rec.QFactor, rec.FQLow, rec.FQHigh = nil, nil, nil
	buf.Reset()
	printSummary(&buf, rec)
	assert.Contains(t, buf.String(), "Q-factor:             undefined")
}

func TestPrintReport(t *testing.T) {
	q := 5.0
	best := helmholtz.OptimizationResult{X: 0.3, Y: 0.2, Z: 0.1, Radius: 0.02, Length: 0.05, Xi: 40,
		Score: 0.5, Converged: true, ResonanceFrequency: 150.2, QFactor: &q, Evaluations: 321}
	rep := &helmholtz.OptimizationReport{
		Best:   best,
		Ranked: []helmholtz.OptimizationResult{best, best},
		Starts: 4,
	}

	var buf bytes.Buffer
	printReport(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "score 0.5, 321 evaluations")
	assert.Contains(t, out, "f=150.200 Hz  Q=5.000")
	assert.Contains(t, out, "Converged 2 of 4 starts")
	assert.Contains(t, out, "Top 2:")
}

func TestProgressTracker(t *testing.T) {
	p := newProgressTracker(20, true)
	assert.False(t, p.reportIfNeeded(1))
	assert.True(t, p.reportIfNeeded(2))
	assert.False(t, p.reportIfNeeded(3))
	assert.True(t, p.reportIfNeeded(10))

	quiet := newProgressTracker(20, false)
	assert.False(t, quiet.reportIfNeeded(20))
}

func TestWriteWAV(t *testing.T) {
	rec, err := helmholtz.Simulate(helmholtz.DefaultConfig())
	require.NoError(t, err)
	samples, err := renderAudio(rec, "ring", 8000, 0, 0.5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ring.wav")
	require.NoError(t, writeWAV(path, samples, 8000, 24))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint16(24), dec.BitDepth)
	assert.Equal(t, uint32(8000), dec.SampleRate)

	_, err = renderAudio(rec, "chirp", 8000, 0, 1)
	assert.ErrorIs(t, err, errUsage)
}

func TestWriteWAV_BadPath(t *testing.T) {
	err := writeWAV("/nonexistent/dir/out.wav", []float64{0}, 8000, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestRun_Commands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"version"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "helmholtz "+helmholtz.Version+"\n"))
	assert.Contains(t, out.String(), "simd: ")

	out.Reset()
	require.NoError(t, run(ctx, []string{"presets"}, &out))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), len(helmholtz.PresetNames()))

	out.Reset()
	jsonPath := filepath.Join(dir, "sim.json")
	csvPath := filepath.Join(dir, "sim.csv")
	require.NoError(t, run(ctx, []string{"simulate", "-preset", "02", "-o", jsonPath, "-export", csvPath}, &out))
	rec, err := helmholtz.LoadJSON(jsonPath)
	require.NoError(t, err)
	assert.NotNil(t, rec.QFactor)
	assert.FileExists(t, csvPath)

	wavPath := filepath.Join(dir, "ir.wav")
	require.NoError(t, run(ctx, []string{"audition", "-mode", "ir", "-length", "4096", wavPath}, &out))
	assert.FileExists(t, wavPath)

	assert.ErrorIs(t, run(ctx, nil, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"bogus"}, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"audition"}, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"optimize", "-f", "-1", "-q", "5"}, &out), helmholtz.ErrValidation)
}
