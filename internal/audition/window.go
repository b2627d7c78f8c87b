package audition

import (
	"math"

	"github.com/tphakala/go-helmholtz/internal/mathutil"
	"gonum.org/v1/gonum/floats"
)

// KaiserWindow returns a length-sample Kaiser window centred on index
// length/2, so that w[length/2-i] == w[length/2+i]:
//
//	w[n] = I₀(β·sqrt(1 - ((n - N/2)/(N/2))²)) / I₀(β)
//
// Larger β trades main-lobe width for lower sidelobes.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	centre := float64(length / 2)
	i0Beta := mathutil.BesselI0(beta)
	for n := range length {
		x := (float64(n) - centre) / centre
		window[n] = mathutil.BesselI0(beta*math.Sqrt(math.Max(0, 1-x*x))) / i0Beta
	}
	return window
}

// Taper multiplies x in place by a Kaiser window of the same length.
func Taper(x []float64, beta float64) {
	floats.Mul(x, KaiserWindow(len(x), beta))
}
