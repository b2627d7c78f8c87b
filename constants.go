package helmholtz

// Preset constants
const (
	presetValuesPerOctave = 200 // sweep resolution of the bundled presets
)

// Version is reported by the CLI and the HTTP API.
const Version = "0.3.0"
