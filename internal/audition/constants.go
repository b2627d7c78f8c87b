package audition

// Rendering defaults
const (
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	DefaultLength     = 1 << 16 // impulse response samples

	peakLevel  = 0.9 // normalised output peak, leaves headroom below full scale
	kaiserBeta = 6.0 // impulse response taper, about 60 dB sidelobes
	pcmFormat  = 1   // WAV format tag for integer PCM
)

// Bit depth limits
const (
	minBitDepth = 8
	maxBitDepth = 32
)
