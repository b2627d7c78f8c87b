// Package simdops provides SIMD-accelerated vector operations over frequency grids.
//
// The acoustic engine evaluates every quantity across the whole sweep at once,
// so the hot paths are elementwise scalings of real vectors.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated operations on float64 vectors.
// Function pointers keep the call sites independent of the backing kernels.
type Ops struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

// Pre-instantiated operations, package-level to avoid repeated allocation.
var ops = Ops{
	Scale: f64.Scale,
}

// Default returns the SIMD operation table.
func Default() *Ops {
	return &ops
}

// Scaled returns a new slice holding a[i] * s.
func Scaled(a []float64, s float64) []float64 {
	dst := make([]float64, len(a))
	ops.Scale(dst, a, s)
	return dst
}

// SquaredMagnitude writes |z[i]|² = re² + im² into dst.
// dst must have at least len(z) elements.
func SquaredMagnitude(dst []float64, z []complex128) {
	for i, v := range z {
		re, im := real(v), imag(v)
		dst[i] = re*re + im*im
	}
}

// Info reports the SIMD instruction sets detected on this CPU.
func Info() string {
	return cpu.Info()
}
