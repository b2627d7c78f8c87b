package helmholtz

import (
	"fmt"
	"maps"
	"slices"
)

var presets = map[string]struct {
	geometry GeometryConfig
	aperture ApertureConfig
}{
	"01": {
		GeometryConfig{Form: "cuboid", X: 0.5, Y: 0.3, Z: 0.2},
		ApertureConfig{Form: "tube", Length: 0.1, Radius: 0.05, Damping: true, Xi: 50},
	},
	"02": {
		GeometryConfig{Form: "cuboid", X: 1.0, Y: 0.6, Z: 0.4},
		ApertureConfig{Form: "tube", Length: 0.1, Radius: 0.05, Damping: true, Xi: 12},
	},
	"03": {
		GeometryConfig{Form: "cuboid", X: 0.8, Y: 0.5, Z: 0.3},
		ApertureConfig{Form: "slit", Length: 0.01, Width: 0.02, Height: 0.5},
	},
	"04": {
		GeometryConfig{Form: "cylinder", Radius: 0.1, Height: 0.2},
		ApertureConfig{Form: "tube", Length: 0.05, Radius: 0.02, Damping: true, Xi: 12},
	},
	"05": {
		GeometryConfig{Form: "cylinder", Radius: 0.15, Height: 0.25},
		ApertureConfig{Form: "tube", Length: 0.07, Radius: 0.03, Damping: true, Xi: 20},
	},
	"06": {
		GeometryConfig{Form: "cuboid", X: 0.6, Y: 0.4, Z: 0.3},
		ApertureConfig{Form: "slit", Length: 0.02, Width: 0.03, Height: 0.6},
	},
	"07": {
		GeometryConfig{Form: "cylinder", Radius: 0.12, Height: 0.18},
		ApertureConfig{Form: "tube", Length: 0.06, Radius: 0.025, Damping: true, Xi: 15},
	},
	"08": {
		GeometryConfig{Form: "cuboid", X: 0.7, Y: 0.5, Z: 0.4},
		ApertureConfig{Form: "slit", Length: 0.015, Width: 0.025, Height: 0.5},
	},
	"09": {
		GeometryConfig{Form: "cylinder", Radius: 0.08, Height: 0.22},
		ApertureConfig{Form: "tube", Length: 0.04, Radius: 0.02, Damping: true, Xi: 10},
	},
}

// PresetNames returns the bundled example names in order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Preset returns the named example resonator in default air.
func Preset(name string) (Config, error) {
	p, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, PresetNames())
	}
	cfg := DefaultConfig()
	cfg.Geometry = p.geometry
	cfg.Aperture = p.aperture
	cfg.Sweep.ValuesPerOctave = presetValuesPerOctave
	return cfg, nil
}
