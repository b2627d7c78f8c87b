package helmholtz

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tphakala/go-helmholtz/internal/optimizer"
)

// Bound is a closed search interval.
type Bound = optimizer.Bound

// Bounds holds the search interval of x, y, z, radius, length and xi.
type Bounds = optimizer.Bounds

// Metrics receives one observation per finished optimization start.
type Metrics = optimizer.Metrics

// DefaultBounds returns the default physical search ranges.
func DefaultBounds() Bounds { return optimizer.DefaultBounds() }

// OptimizationResult is one converged (or failed) local search.
type OptimizationResult struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
	Length float64 `json:"length"`
	Xi     float64 `json:"xi"`

	Score              float64  `json:"score"`
	Converged          bool     `json:"converged"`
	ResonanceFrequency float64  `json:"resonance_frequency"`
	QFactor            *float64 `json:"q_factor"`
	Evaluations        int      `json:"evaluations"`
}

// OptimizationReport is the outcome of Optimize. Ranked is sorted by
// ascending score and Best equals Ranked[0].
type OptimizationReport struct {
	Best     OptimizationResult   `json:"best"`
	Ranked   []OptimizationResult `json:"ranked"`
	Failures int                  `json:"failures"`
	Starts   int                  `json:"starts"`
	Duration time.Duration        `json:"duration"`
}

// ProgressFunc observes every finished start.
type ProgressFunc func(done, total int, r OptimizationResult)

// OptimizeOption adjusts an optimization run.
type OptimizeOption func(*optimizer.Config)

// WithStarts sets the number of initial guesses.
func WithStarts(n int) OptimizeOption { return func(c *optimizer.Config) { c.Starts = n } }

// WithWorkers sets the worker pool size. Zero uses every CPU.
func WithWorkers(n int) OptimizeOption { return func(c *optimizer.Config) { c.Workers = n } }

// WithSeed makes the initial guesses reproducible.
func WithSeed(seed uint64) OptimizeOption { return func(c *optimizer.Config) { c.Seed = seed } }

// WithBounds replaces the search ranges.
func WithBounds(b Bounds) OptimizeOption { return func(c *optimizer.Config) { c.Bounds = b } }

// WithTaskTimeout limits the wall-clock time of each start.
func WithTaskTimeout(d time.Duration) OptimizeOption {
	return func(c *optimizer.Config) { c.TaskTimeout = d }
}

// WithValuesPerOctave sets the sweep resolution used by the objective.
func WithValuesPerOctave(n int) OptimizeOption {
	return func(c *optimizer.Config) { c.ValuesPerOctave = n }
}

// WithMaxEvaluations limits objective evaluations per start.
func WithMaxEvaluations(n int) OptimizeOption {
	return func(c *optimizer.Config) { c.MaxEvaluations = n }
}

// WithLogger enables structured logging of the run.
func WithLogger(l *slog.Logger) OptimizeOption { return func(c *optimizer.Config) { c.Logger = l } }

// WithMetrics registers a metrics sink.
func WithMetrics(m Metrics) OptimizeOption { return func(c *optimizer.Config) { c.Metrics = m } }

// WithProgress registers a callback invoked after every finished start.
func WithProgress(fn ProgressFunc) OptimizeOption {
	return func(c *optimizer.Config) {
		c.Progress = func(done, total int, r optimizer.Result) {
			fn(done, total, newOptimizationResult(r))
		}
	}
}

// Optimize searches a cuboid resonator with a damped tube aperture whose
// resonance frequency and Q-factor match the targets. When no start
// converges it returns ErrNoSolution together with the failure count.
func Optimize(ctx context.Context, targetFrequency, targetQ float64, opts ...OptimizeOption) (*OptimizationReport, error) {
	cfg := optimizer.DefaultConfig(targetFrequency, targetQ)
	for _, opt := range opts {
		opt(&cfg)
	}

	rep, err := optimizer.Run(ctx, cfg)
	if rep == nil {
		if errors.Is(err, optimizer.ErrInvalidTargets) || errors.Is(err, optimizer.ErrInvalidConfig) {
			return nil, errors.Join(ErrValidation, err)
		}
		return nil, err
	}

	out := &OptimizationReport{
		Failures: rep.Failures,
		Starts:   rep.Starts,
		Duration: rep.Duration,
		Ranked:   make([]OptimizationResult, 0, len(rep.Ranked)),
	}
	for _, r := range rep.Ranked {
		out.Ranked = append(out.Ranked, newOptimizationResult(r))
	}
	if len(out.Ranked) > 0 {
		out.Best = out.Ranked[0]
	}
	return out, err
}

func newOptimizationResult(r optimizer.Result) OptimizationResult {
	v := r.Vector
	res := OptimizationResult{
		X:                  v[optimizer.ParamX],
		Y:                  v[optimizer.ParamY],
		Z:                  v[optimizer.ParamZ],
		Radius:             v[optimizer.ParamRadius],
		Length:             v[optimizer.ParamLength],
		Xi:                 v[optimizer.ParamXi],
		Score:              r.Score,
		Converged:          r.Converged,
		ResonanceFrequency: r.Evaluation.ResonanceFrequency,
		Evaluations:        r.Evaluations,
	}
	if r.Evaluation.QDefined {
		res.QFactor = ptr(r.Evaluation.Q)
	}
	return res
}

// Config returns the forward-simulation configuration of r: a cuboid cavity
// with a damped tube aperture in default air over the default sweep.
func (r OptimizationResult) Config() Config {
	cfg := DefaultConfig()
	cfg.Geometry = GeometryConfig{Form: "cuboid", X: r.X, Y: r.Y, Z: r.Z}
	cfg.Aperture = ApertureConfig{Form: "tube", Length: r.Length, Radius: r.Radius, Damping: true, Xi: r.Xi}
	return cfg
}
