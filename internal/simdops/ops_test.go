package simdops

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaled(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	out := Scaled(in, 2*math.Pi)

	require.Len(t, out, len(in))
	for i := range in {
		assert.InDelta(t, in[i]*2*math.Pi, out[i], 1e-12, "index %d", i)
	}
	// Input must be left untouched.
	assert.Equal(t, 1.0, in[0])
}

func TestScaleInPlace(t *testing.T) {
	v := []float64{0.5, 1.5, 2.5}
	Default().Scale(v, v, 4)
	assert.Equal(t, []float64{2, 6, 10}, v)
}

func TestSquaredMagnitude(t *testing.T) {
	z := []complex128{3 + 4i, -1 - 1i, 0, complex(1e3, -2e-3), 5i}
	dst := make([]float64, len(z))
	SquaredMagnitude(dst, z)

	for i, v := range z {
		want := cmplx.Abs(v) * cmplx.Abs(v)
		assert.InDelta(t, want, dst[i], 1e-9*math.Max(1, want), "index %d", i)
	}
}

func TestInfo(t *testing.T) {
	assert.NotEmpty(t, Info())
}

// BenchmarkSquaredMagnitude measures the |Z|² kernel over a typical sweep.
func BenchmarkSquaredMagnitude(b *testing.B) {
	const n = 4000
	z := make([]complex128, n)
	for i := range z {
		z[i] = complex(float64(i)*0.01, -float64(i)*0.02)
	}
	dst := make([]float64, n)

	b.ReportAllocs()
	for b.Loop() {
		SquaredMagnitude(dst, z)
	}
}

// BenchmarkScale measures scaling a sweep-sized vector in place.
func BenchmarkScale(b *testing.B) {
	v := make([]float64, 4000)
	for i := range v {
		v[i] = float64(i)
	}
	ops := Default()

	b.ReportAllocs()
	for b.Loop() {
		ops.Scale(v, v, 1.0000001)
	}
}
