// Package helmholtz simulates Helmholtz resonators and searches resonator
// geometries for a target resonance frequency and Q-factor.
//
// A resonator is a cavity coupled to the outside air through a narrow
// aperture. The simulation turns a resonator description and the ambient air
// into a frequency-dependent absorption area, from which the resonance
// frequency, the peak absorption area and the Q-factor are reduced.
//
// # Features
//
//   - Cylinder and cuboid cavities, tube and slit apertures
//   - Humid-air medium model (density, speed of sound, viscosity)
//   - Porous, radiation, stiffness/mass and friction impedances
//   - Diffuse-field and fixed-incidence absorption
//   - Multi-start bounded optimizer running on a goroutine pool
//   - Lossless JSON records, YAML/JSON configuration files
//   - SIMD-accelerated grid kernels via github.com/tphakala/simd
//   - CSV and XLSX export of a sweep ([Record.Export])
//   - Audible rendering as impulse response or free decay ([Record.Ring])
//
// The helmholtz command (cmd/helmholtz) wraps this package in a CLI and an
// HTTP API with a BadgerDB result cache, Prometheus metrics and
// OpenTelemetry tracing.
//
// # Quick Start
//
// Simulating a bundled example:
//
//	cfg, err := helmholtz.Preset("01")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rec, err := helmholtz.Simulate(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("f0 = %.1f Hz\n", rec.ResonanceFrequency)
//	if rec.QFactor != nil {
//	    fmt.Printf("Q = %.1f\n", *rec.QFactor)
//	}
//
// Searching a geometry for 120 Hz with Q = 6:
//
//	rep, err := helmholtz.Optimize(ctx, 120, 6, helmholtz.WithStarts(128))
//	if errors.Is(err, helmholtz.ErrNoSolution) {
//	    log.Fatalf("all %d starts failed", rep.Failures)
//	}
//	rec, err := helmholtz.Simulate(rep.Best.Config())
//
// # Errors
//
// Constructors fail fast. Every error wraps [ErrValidation],
// [ErrConfiguration] or [ErrNumericalDegeneracy], and validation errors carry
// a [FieldError] naming the offending field. An undefined Q-factor is not an
// error: [Summary.QFactor] is nil when the half-power points fall outside the
// sweep.
//
// # Physics
//
// The total resonator impedance is the sum of friction, porous and
// stiffness/mass terms. The absorption area is
//
//	A(f) = Re(Z) / |Z + Z_rad|² · 2ρc / cos θ
//
// with θ = 0 for a diffuse field. The resonance is the argmax of A and the
// Q-factor is f0 divided by the half-power bandwidth, found by linear
// interpolation of A − A_max/2.
package helmholtz
