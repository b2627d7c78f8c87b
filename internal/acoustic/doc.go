// Package acoustic implements the Helmholtz resonator simulation engine.
//
// Value objects (Medium, Geometry, Aperture, Resonator, Grid) are validated at
// construction and immutable afterwards. Analyze combines them in a single
// pure pass: it evaluates the porous, radiation, stiffness/mass and friction
// impedances over the frequency grid, reduces them to an absorption-area
// curve, and extracts the resonance frequency, peak absorption area and
// Q-factor.
//
// All computation is synchronous and single-threaded; every step is a
// whole-grid vector operation.
package acoustic
