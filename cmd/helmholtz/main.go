// Command helmholtz simulates and optimizes Helmholtz resonators.
//
// Usage:
//
//	helmholtz simulate -preset 03 -o sim.json -export sim.xlsx
//	helmholtz simulate -config resonator.yaml
//	helmholtz optimize -f 150 -q 5 -starts 200 -o best.json
//	helmholtz audition -preset 01 -mode ring ring.wav
//	helmholtz presets
//	helmholtz serve -addr :8080 -cache ./cache
//
// Pass -v to any subcommand for verbose output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/go-helmholtz"
	"github.com/tphakala/go-helmholtz/internal/audition"
	"github.com/tphakala/go-helmholtz/internal/optimizer"
	"github.com/tphakala/go-helmholtz/internal/server"
	"github.com/tphakala/go-helmholtz/internal/simdops"
	"github.com/tphakala/go-helmholtz/internal/store"
	"github.com/tphakala/go-helmholtz/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

var errUsage = errors.New("usage error")

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: helmholtz <command> [options]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  simulate   run a forward simulation\n")
	fmt.Fprintf(w, "  optimize   search a resonator for a target frequency and Q\n")
	fmt.Fprintf(w, "  audition   render a resonator response to WAV\n")
	fmt.Fprintf(w, "  presets    list bundled example resonators\n")
	fmt.Fprintf(w, "  serve      start the HTTP API\n")
	fmt.Fprintf(w, "  version    print the version\n")
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "simulate":
		return runSimulate(rest, stdout)
	case "optimize":
		return runOptimize(ctx, rest, stdout)
	case "audition":
		return runAudition(rest, stdout)
	case "presets":
		return runPresets(stdout)
	case "serve":
		return runServe(ctx, rest)
	case "version":
		fmt.Fprintf(stdout, "helmholtz %s\n", helmholtz.Version)
		fmt.Fprintf(stdout, "simd: %s\n", simdops.Info())
		return nil
	default:
		usage(os.Stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runSimulate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON or YAML configuration file")
	preset := fs.String("preset", "", "Bundled preset name (see 'helmholtz presets')")
	output := fs.String("o", "", "Write the simulation record as JSON")
	exportPath := fs.String("export", "", "Write the sweep as .csv or .xlsx")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath, *preset)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Geometry: %s, aperture: %s", cfg.Geometry.Form, cfg.Aperture.Form)
		log.Printf("Sweep: %g-%g Hz, %d values per octave",
			cfg.Sweep.MinFrequency, cfg.Sweep.MaxFrequency, cfg.Sweep.ValuesPerOctave)
	}

	rec, err := helmholtz.Simulate(cfg)
	if err != nil {
		return err
	}
	printSummary(stdout, rec)

	if *output != "" {
		if err := helmholtz.SaveJSON(*output, rec); err != nil {
			return err
		}
		if *verbose {
			log.Printf("Record written to %s", *output)
		}
	}
	if *exportPath != "" {
		if err := rec.Export(*exportPath); err != nil {
			return err
		}
		if *verbose {
			log.Printf("Sweep exported to %s", *exportPath)
		}
	}
	return nil
}

func runOptimize(ctx context.Context, args []string, stdout io.Writer) error {
	defaults := optimizer.DefaultConfig(0, 0)

	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	freq := fs.Float64("f", 0, "Target resonance frequency in Hz (required)")
	q := fs.Float64("q", 0, "Target Q-factor (required)")
	starts := fs.Int("starts", defaults.Starts, "Number of initial guesses")
	workers := fs.Int("workers", 0, "Worker goroutines, 0 for every CPU")
	seed := fs.Uint64("seed", 0, "Seed for initial guesses")
	vpo := fs.Int("vpo", defaults.ValuesPerOctave, "Sweep values per octave during search")
	maxEvals := fs.Int("max-evals", defaults.MaxEvaluations, "Objective evaluations per start")
	timeout := fs.Duration("timeout", defaults.TaskTimeout, "Wall-clock limit per start, 0 disables")
	output := fs.String("o", "", "Write the best resonator's simulation record as JSON")
	trace := fs.Bool("trace", false, "Export spans via OTLP/HTTP (OTEL_EXPORTER_OTLP_* env)")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	if *trace {
		shutdown, err := startTracing(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	opts := []helmholtz.OptimizeOption{
		helmholtz.WithStarts(*starts),
		helmholtz.WithWorkers(*workers),
		helmholtz.WithSeed(*seed),
		helmholtz.WithValuesPerOctave(*vpo),
		helmholtz.WithMaxEvaluations(*maxEvals),
		helmholtz.WithTaskTimeout(*timeout),
	}
	if *verbose {
		log.Printf("Target: %g Hz, Q %g", *freq, *q)
		log.Printf("Starts: %d, values per octave: %d", *starts, *vpo)
		tracker := newProgressTracker(*starts, true)
		opts = append(opts,
			helmholtz.WithLogger(newLogger(true)),
			helmholtz.WithProgress(func(done, _ int, _ helmholtz.OptimizationResult) {
				tracker.reportIfNeeded(done)
			}))
	}

	rep, err := helmholtz.Optimize(ctx, *freq, *q, opts...)
	if err != nil {
		if rep != nil {
			log.Printf("%d of %d starts failed", rep.Failures, rep.Starts)
		}
		return err
	}
	printReport(stdout, rep)

	if *output != "" {
		rec, err := helmholtz.Simulate(rep.Best.Config())
		if err != nil {
			return err
		}
		if err := helmholtz.SaveJSON(*output, rec); err != nil {
			return err
		}
		if *verbose {
			log.Printf("Best record written to %s", *output)
		}
	}
	return nil
}

func runAudition(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("audition", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON or YAML configuration file")
	preset := fs.String("preset", "", "Bundled preset name")
	mode := fs.String("mode", "ring", "Rendering: ring (free decay) or ir (impulse response)")
	rate := fs.Int("rate", audition.DefaultSampleRate, "Sample rate in Hz")
	bits := fs.Int("bits", audition.DefaultBitDepth, "Bit depth: 16, 24 or 32")
	length := fs.Int("length", audition.DefaultLength, "Impulse response length in samples (even)")
	seconds := fs.Float64("seconds", defaultRingSeconds, "Ring duration in seconds")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: audition needs exactly one output.wav", errUsage)
	}

	cfg, err := loadConfig(*configPath, *preset)
	if err != nil {
		return err
	}
	rec, err := helmholtz.Simulate(cfg)
	if err != nil {
		return err
	}

	samples, err := renderAudio(rec, *mode, *rate, *length, *seconds)
	if err != nil {
		return err
	}
	if err := writeWAV(fs.Arg(0), samples, *rate, *bits); err != nil {
		return err
	}
	if *verbose {
		log.Printf("Rendered %d samples (%s) at %d Hz, %d-bit", len(samples), *mode, *rate, *bits)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", fs.Arg(0))
	return nil
}

func runPresets(stdout io.Writer) error {
	for _, name := range helmholtz.PresetNames() {
		cfg, err := helmholtz.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s  %s\n", name, describe(cfg))
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", defaultAddr, "Listen address")
	cacheDir := fs.String("cache", "", "Simulation cache directory, empty for in-memory")
	cacheTTL := fs.Duration("cache-ttl", 0, "Cache entry lifetime, 0 keeps entries forever")
	workers := fs.Int("workers", 0, "Optimizer workers, 0 for every CPU")
	maxStarts := fs.Int("max-starts", server.DefaultMaxStarts, "Largest start count a client may request")
	trace := fs.Bool("trace", false, "Export spans via OTLP/HTTP (OTEL_EXPORTER_OTLP_* env)")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(*verbose)
	if *trace {
		shutdown, err := startTracing(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	cache, err := store.Open(store.Options{
		Path:     *cacheDir,
		InMemory: *cacheDir == "",
		TTL:      *cacheTTL,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Printf("cache close: %v", err)
		}
	}()

	srv := server.New(server.Options{
		Cache:     cache,
		Stats:     telemetry.NewStats(),
		Logger:    logger,
		MaxStarts: *maxStarts,
		Workers:   *workers,
	})
	return srv.ListenAndServe(ctx, *addr)
}

// newLogger returns a text logger on stderr; verbose enables debug records.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
