// Package optimizer searches resonator geometries that reach a target
// resonance frequency and Q-factor.
//
// Each start runs an independent bounded Nelder-Mead search. Starts are
// distributed over a fixed pool of goroutines and share no mutable state; the
// converged results are ranked by ascending score.
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/tphakala/go-helmholtz/internal/acoustic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tphakala/go-helmholtz/internal/optimizer"

// Metrics receives one observation per finished start.
type Metrics interface {
	ObserveStart(converged bool, d time.Duration, evaluations int)
}

// ProgressFunc is called from the collecting goroutine after every finished
// start, in completion order.
type ProgressFunc func(done, total int, r Result)

// Config controls a multi-start search.
type Config struct {
	Targets Targets
	Bounds  Bounds

	Starts          int           // number of initial guesses
	Workers         int           // pool size, 0 means runtime.NumCPU()
	Seed            uint64        // seed for initial guesses
	ValuesPerOctave int           // sweep resolution of the objective
	MaxEvaluations  int           // objective evaluations per start
	TaskTimeout     time.Duration // wall-clock limit per start, 0 disables

	// Initial overrides generated guesses when non-empty.
	Initial []Vector

	Logger   *slog.Logger
	Progress ProgressFunc
	Metrics  Metrics
}

// DefaultConfig returns a configuration for the given targets.
func DefaultConfig(frequency, q float64) Config {
	return Config{
		Targets:         Targets{Frequency: frequency, Q: q},
		Bounds:          DefaultBounds(),
		Starts:          DefaultStarts,
		ValuesPerOctave: DefaultValuesPerOctave,
		MaxEvaluations:  DefaultMaxEvaluations,
		TaskTimeout:     DefaultTaskTimeout,
	}
}

// Validate checks the parts of the configuration shared by all starts.
// Bounds are checked per start so that unusable bounds surface as failed
// starts and ErrNoSolution.
func (c *Config) Validate() error {
	if err := c.Targets.Validate(); err != nil {
		return err
	}
	if c.Starts <= 0 && len(c.Initial) == 0 {
		return fmt.Errorf("%w: starts must be > 0, got %d", ErrInvalidConfig, c.Starts)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ValuesPerOctave < 0 {
		return fmt.Errorf("%w: values per octave must be >= 0, got %d", ErrInvalidConfig, c.ValuesPerOctave)
	}
	if c.MaxEvaluations < 0 {
		return fmt.Errorf("%w: max evaluations must be >= 0, got %d", ErrInvalidConfig, c.MaxEvaluations)
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("%w: task timeout must be >= 0, got %v", ErrInvalidConfig, c.TaskTimeout)
	}
	return nil
}

// Report summarises a search.
type Report struct {
	Best     *Result       `json:"best,omitempty"`
	Ranked   []Result      `json:"ranked"`
	Failures int           `json:"failures"`
	Starts   int           `json:"starts"`
	Duration time.Duration `json:"duration"`
}

// Run executes the multi-start search. It returns ErrNoSolution together with
// the report when no start converged. Cancelling ctx stops the in-flight
// starts; they are counted as failures.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "optimizer.Run",
		trace.WithAttributes(
			attribute.Float64("target.frequency", cfg.Targets.Frequency),
			attribute.Float64("target.q", cfg.Targets.Q),
		))
	defer span.End()

	starts := cfg.Initial
	if len(starts) == 0 {
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
		starts = InitialGuesses(rng, cfg.Starts, cfg.Bounds, cfg.Targets, acoustic.DefaultMedium().SpeedOfSound())
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(starts))

	vpo := cfg.ValuesPerOctave
	if vpo == 0 {
		vpo = DefaultValuesPerOctave
	}
	maxEval := cfg.MaxEvaluations
	if maxEval == 0 {
		maxEval = DefaultMaxEvaluations
	}

	span.SetAttributes(attribute.Int("starts", len(starts)), attribute.Int("workers", workers))
	logger.Info("optimization started",
		slog.Float64("target_frequency", cfg.Targets.Frequency),
		slog.Float64("target_q", cfg.Targets.Q),
		slog.Int("starts", len(starts)),
		slog.Int("workers", workers))

	begin := time.Now()
	tasks := make(chan task)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				results <- runTask(ctx, t)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, s := range starts {
			t := task{
				index:           i,
				start:           s,
				bounds:          cfg.Bounds,
				targets:         cfg.Targets,
				valuesPerOctave: vpo,
				maxEvaluations:  maxEval,
				timeout:         cfg.TaskTimeout,
			}
			select {
			case tasks <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	report := &Report{Starts: len(starts)}
	done := 0
	for r := range results {
		done++
		if r.Converged {
			report.Ranked = append(report.Ranked, r)
		} else {
			report.Failures++
			logger.Debug("optimization start dropped",
				slog.Int("start", r.Start),
				slog.Any("error", r.Err))
		}
		if cfg.Metrics != nil {
			cfg.Metrics.ObserveStart(r.Converged, r.Duration, r.Evaluations)
		}
		if cfg.Progress != nil {
			cfg.Progress(done, len(starts), r)
		}
	}
	// Starts never dispatched because of cancellation are failures too.
	report.Failures += len(starts) - done
	report.Duration = time.Since(begin)

	sort.SliceStable(report.Ranked, func(i, j int) bool {
		return report.Ranked[i].Score < report.Ranked[j].Score
	})

	span.SetAttributes(
		attribute.Int("converged", len(report.Ranked)),
		attribute.Int("failures", report.Failures))

	if len(report.Ranked) == 0 {
		span.SetStatus(codes.Error, ErrNoSolution.Error())
		logger.Warn("optimization found no solution",
			slog.Int("failures", report.Failures),
			slog.Duration("duration", report.Duration))
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("%w: %w", ErrNoSolution, err)
		}
		return report, ErrNoSolution
	}

	report.Best = &report.Ranked[0]
	logger.Info("optimization finished",
		slog.Float64("score", report.Best.Score),
		slog.Float64("resonance_frequency", report.Best.Evaluation.ResonanceFrequency),
		slog.Float64("q", report.Best.Evaluation.Q),
		slog.Int("converged", len(report.Ranked)),
		slog.Int("failures", report.Failures),
		slog.Duration("duration", report.Duration))
	return report, nil
}

// runTask wraps localSearch in a child span.
func runTask(ctx context.Context, t task) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "optimizer.start",
		trace.WithAttributes(attribute.Int("start", t.index)))
	defer span.End()

	r := localSearch(ctx, t)
	span.SetAttributes(
		attribute.Bool("converged", r.Converged),
		attribute.Int("evaluations", r.Evaluations),
		attribute.Float64("score", r.Score))
	if r.Err != nil {
		span.RecordError(r.Err)
	}
	return r
}
