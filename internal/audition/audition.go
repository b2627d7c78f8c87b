// Package audition renders resonator responses as audio.
//
// ImpulseResponse turns an absorption curve into a zero-phase filter kernel;
// Ring synthesises the free decay of a resonance with a given Q. Both can be
// written as integer PCM WAV files.
package audition

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-helmholtz/internal/mathutil"
	"github.com/tphakala/go-helmholtz/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput indicates unusable rendering parameters.
var ErrInvalidInput = errors.New("invalid audition input")

// ImpulseResponse builds a length-sample impulse response whose magnitude
// spectrum follows curve, sampled at freqs (ascending, Hz). Bins outside the
// curve's range are silent. The response is centred, tapered with a Kaiser
// window and peak-normalised.
func ImpulseResponse(freqs, curve []float64, sampleRate, length int) ([]float64, error) {
	if len(freqs) < 2 || len(freqs) != len(curve) {
		return nil, fmt.Errorf("%w: need at least 2 matching frequency/curve samples, got %d/%d", ErrInvalidInput, len(freqs), len(curve))
	}
	if sampleRate <= 0 || length < 2 || length%2 != 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0 and length even and >= 2", ErrInvalidInput)
	}

	nBins := length/2 + 1
	binFreqs := floats.Span(make([]float64, nBins), 0, float64(sampleRate)/2)

	spectrum := make([]complex128, nBins)
	for i, f := range binFreqs {
		spectrum[i] = complex(mathutil.Interpolate(freqs, curve, f, 0), 0)
	}

	fft := fourier.NewFFT(length)
	ir := fft.Sequence(nil, spectrum)

	// Zero phase puts the main lobe at index 0; rotate it to the centre.
	centred := make([]float64, length)
	half := length / 2
	for i := range ir {
		centred[(i+half)%length] = ir[i]
	}
	Taper(centred, kaiserBeta)
	return Normalize(centred), nil
}

// Ring synthesises the free decay of a resonance at f0 with quality factor q:
//
//	x(t) = e^{-π·f0·t/q} · sin(2π·f0·t)
func Ring(f0, q float64, sampleRate int, seconds float64) ([]float64, error) {
	if !(f0 > 0) || !(q > 0) || sampleRate <= 0 || !(seconds > 0) {
		return nil, fmt.Errorf("%w: f0, q, sample rate and duration must be > 0", ErrInvalidInput)
	}
	if f0 >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("%w: f0 %.1f Hz is above Nyquist", ErrInvalidInput, f0)
	}

	n := int(math.Ceil(seconds * float64(sampleRate)))
	out := make([]float64, n)
	decay := math.Pi * f0 / q
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = math.Exp(-decay*t) * math.Sin(2*math.Pi*f0*t)
	}
	return Normalize(out), nil
}

// Normalize scales x so its largest magnitude equals the output peak level.
// A silent signal is returned unchanged.
func Normalize(x []float64) []float64 {
	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return x
	}
	return simdops.Scaled(x, peakLevel/peak)
}

// WriteWAV encodes mono samples in [-1, 1] as integer PCM.
func WriteWAV(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0", ErrInvalidInput)
	}
	if bitDepth < minBitDepth || bitDepth > maxBitDepth || bitDepth%8 != 0 {
		return fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidInput, bitDepth)
	}

	maxVal := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(mathutil.Clip(s, -1, 1) * maxVal))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise WAV: %w", err)
	}
	return nil
}
