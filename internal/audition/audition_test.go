package audition

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-helmholtz/internal/mathutil"
	"github.com/tphakala/go-helmholtz/internal/testutil"
)

func peakOf(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func TestImpulseResponse(t *testing.T) {
	freqs := testutil.LinearGrid(50, 500, 400)
	curve := testutil.Lorentzian(freqs, 150, 10)

	ir, err := ImpulseResponse(freqs, curve, 8000, 4096)
	require.NoError(t, err)
	require.Len(t, ir, 4096)
	testutil.AssertNoNaNOrInf(t, ir)
	assert.InDelta(t, peakLevel, peakOf(ir), 1e-12)

	// A zero-phase kernel is symmetric about the centre sample.
	half := len(ir) / 2
	for i := 1; i < half; i++ {
		assert.InDelta(t, ir[half-i], ir[half+i], 1e-9, "asymmetry at offset %d", i)
	}
	assert.InDelta(t, peakLevel, math.Abs(ir[half]), 1e-12, "main lobe must sit at the centre")
}

func TestImpulseResponse_Silent(t *testing.T) {
	freqs := []float64{100, 200}
	curve := []float64{0, 0}

	ir, err := ImpulseResponse(freqs, curve, 8000, 64)
	require.NoError(t, err)
	assert.Equal(t, 0.0, peakOf(ir))
}

func TestImpulseResponse_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		freqs      []float64
		curve      []float64
		rate, size int
	}{
		{"mismatched", []float64{1, 2}, []float64{1}, 8000, 64},
		{"single point", []float64{1}, []float64{1}, 8000, 64},
		{"zero rate", []float64{1, 2}, []float64{1, 1}, 0, 64},
		{"odd length", []float64{1, 2}, []float64{1, 1}, 8000, 63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImpulseResponse(tt.freqs, tt.curve, tt.rate, tt.size)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRing_Decay(t *testing.T) {
	const (
		f0   = 100.0
		q    = 5.0
		rate = 8000
	)
	x, err := Ring(f0, q, rate, 1)
	require.NoError(t, err)
	require.Len(t, x, rate)
	assert.InDelta(t, peakLevel, peakOf(x), 1e-12)
	assert.Equal(t, 0.0, x[0])

	// Envelope falls by e^{-π·f0/q} per second; compare the first and
	// second tenths of a second.
	first := peakOf(x[:rate/10])
	second := peakOf(x[rate/10 : rate/5])
	want := math.Exp(-math.Pi * f0 / q / 10)
	assert.InDelta(t, want, second/first, 0.05)
}

func TestRing_Invalid(t *testing.T) {
	_, err := Ring(0, 5, 8000, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Ring(100, -1, 8000, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Ring(5000, 5, 8000, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Ring(100, 5, 8000, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	samples, err := Ring(440, 10, 8000, 0.25)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ring.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, samples, 8000, DefaultBitDepth))
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = in.Close() }()

	dec := wav.NewDecoder(in)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 8000, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, uint16(DefaultBitDepth), dec.BitDepth)
	require.Len(t, buf.Data, len(samples))

	scale := float64(math.MaxInt16)
	for i := range samples {
		assert.InDelta(t, samples[i]*scale, float64(buf.Data[i]), 1, "sample %d", i)
	}
}

func TestWriteWAV_InvalidBitDepth(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ErrorIs(t, WriteWAV(f, []float64{0}, 8000, 12), ErrInvalidInput)
	assert.ErrorIs(t, WriteWAV(f, []float64{0}, 0, 16), ErrInvalidInput)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{0.5, -2, 1})
	assert.InDeltaSlice(t, []float64{0.225, -0.9, 0.45}, got, 1e-12)
}

func BenchmarkImpulseResponse(b *testing.B) {
	freqs := testutil.LinearGrid(20, 2000, 1000)
	curve := testutil.Lorentzian(freqs, 150, 10)
	for b.Loop() {
		_, _ = ImpulseResponse(freqs, curve, DefaultSampleRate, DefaultLength)
	}
}

func TestKaiserWindow(t *testing.T) {
	w := KaiserWindow(64, 6)
	require.Len(t, w, 64)
	assert.InDelta(t, 1.0, w[32], 1e-15)
	for i := 1; i < 32; i++ {
		assert.InDelta(t, w[32-i], w[32+i], 1e-15, "offset %d", i)
		assert.Less(t, w[32-i], w[32-i+1], "window must rise towards the centre")
	}
	assert.InDelta(t, 1/mathutil.BesselI0(6), w[0], 1e-12)

	assert.Empty(t, KaiserWindow(0, 6))
	assert.Equal(t, []float64{1}, KaiserWindow(1, 6))

	// beta = 0 is rectangular.
	for _, v := range KaiserWindow(16, 0) {
		assert.InDelta(t, 1.0, v, 1e-15)
	}
}
