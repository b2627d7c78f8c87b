package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tphakala/go-helmholtz"
	"github.com/tphakala/go-helmholtz/internal/audition"
	"github.com/tphakala/go-helmholtz/internal/telemetry"
)

// loadConfig resolves the configuration from a file or a preset. With
// neither, the default configuration is used.
func loadConfig(path, preset string) (helmholtz.Config, error) {
	switch {
	case path != "" && preset != "":
		return helmholtz.Config{}, fmt.Errorf("%w: -config and -preset are mutually exclusive", errUsage)
	case path != "":
		return helmholtz.LoadConfig(path)
	case preset != "":
		return helmholtz.Preset(preset)
	default:
		return helmholtz.DefaultConfig(), nil
	}
}

// describe renders a one-line summary of a resonator.
func describe(cfg helmholtz.Config) string {
	var b strings.Builder
	g, a := cfg.Geometry, cfg.Aperture
	switch g.Form {
	case "cylinder":
		fmt.Fprintf(&b, "cylinder r=%gm h=%gm", g.Radius, g.Height)
	default:
		fmt.Fprintf(&b, "%s %gx%gx%gm", g.Form, g.X, g.Y, g.Z)
	}
	switch a.Form {
	case "slit":
		fmt.Fprintf(&b, ", slit %gx%gm l=%gm", a.Width, a.Height, a.Length)
	default:
		fmt.Fprintf(&b, ", %s r=%gm l=%gm", a.Form, a.Radius, a.Length)
	}
	if a.Amount > 1 {
		fmt.Fprintf(&b, " x%d", a.Amount)
	}
	if a.Damping {
		fmt.Fprintf(&b, ", damped xi=%g", a.Xi)
	}
	return b.String()
}

func formatQ(q *float64) string {
	if q == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.3f", *q)
}

// printSummary writes the resonance figures of rec.
func printSummary(w io.Writer, rec *helmholtz.Record) {
	fmt.Fprintf(w, "Resonator:            %s\n", describe(rec.Config))
	fmt.Fprintf(w, "Air:                  %.1f °C, %.0f %% RH, rho=%.4f kg/m³, c=%.2f m/s\n",
		rec.Medium.TemperatureC, rec.Medium.Humidity*percentScale, rec.Medium.Density, rec.Medium.SpeedOfSound)
	fmt.Fprintf(w, "Resonance frequency:  %.3f Hz\n", rec.ResonanceFrequency)
	fmt.Fprintf(w, "Peak absorption area: %.4f m²\n", rec.PeakAbsorptionArea)
	fmt.Fprintf(w, "Q-factor:             %s\n", formatQ(rec.QFactor))
	if rec.FQLow != nil && rec.FQHigh != nil {
		fmt.Fprintf(w, "Half-power band:      %.3f-%.3f Hz\n", *rec.FQLow, *rec.FQHigh)
	}
	if rec.RadiationLimit != nil {
		fmt.Fprintf(w, "Radiation limit:      %.1f Hz\n", *rec.RadiationLimit)
	}
}

// printReport writes the best configuration and the leading ranked starts.
func printReport(w io.Writer, rep *helmholtz.OptimizationReport) {
	b := rep.Best
	fmt.Fprintf(w, "Best configuration (score %.4g, %d evaluations):\n", b.Score, b.Evaluations)
	fmt.Fprintf(w, "  cavity   x=%.4f m  y=%.4f m  z=%.4f m\n", b.X, b.Y, b.Z)
	fmt.Fprintf(w, "  tube     radius=%.4f m  length=%.4f m\n", b.Radius, b.Length)
	fmt.Fprintf(w, "  damping  xi=%.2f\n", b.Xi)
	fmt.Fprintf(w, "  result   f=%.3f Hz  Q=%s\n", b.ResonanceFrequency, formatQ(b.QFactor))
	fmt.Fprintf(w, "Converged %d of %d starts in %s\n", len(rep.Ranked), rep.Starts, rep.Duration.Round(time.Millisecond))

	n := min(reportTopN, len(rep.Ranked))
	if n > 1 {
		fmt.Fprintf(w, "Top %d:\n", n)
		for i, r := range rep.Ranked[:n] {
			fmt.Fprintf(w, "  %d. score=%.4g f=%.3f Hz Q=%s\n", i+1, r.Score, r.ResonanceFrequency, formatQ(r.QFactor))
		}
	}
}

// renderAudio produces the samples of the requested rendering mode.
func renderAudio(rec *helmholtz.Record, mode string, rate, length int, seconds float64) ([]float64, error) {
	switch mode {
	case "ring":
		return rec.Ring(rate, seconds)
	case "ir":
		return rec.ImpulseResponse(rate, length)
	default:
		return nil, fmt.Errorf("%w: unknown audition mode %q (ring, ir)", errUsage, mode)
	}
}

// writeWAV creates path and writes samples as mono integer PCM.
func writeWAV(path string, samples []float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := audition.WriteWAV(f, samples, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// progressTracker logs optimization progress every progressInterval percent.
type progressTracker struct {
	total        int
	lastProgress int
	verbose      bool
}

func newProgressTracker(total int, verbose bool) *progressTracker {
	return &progressTracker{total: total, verbose: verbose}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(done int) bool {
	if !p.verbose || p.total == 0 {
		return false
	}
	progress := done * percentScale / p.total
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%% (%d/%d starts)", progress, done, p.total)
		p.lastProgress = progress
		return true
	}
	return false
}

// startTracing installs the OTLP tracer provider and returns its shutdown.
func startTracing(ctx context.Context) (func(), error) {
	tp, err := telemetry.InitTracing(ctx)
	if err != nil {
		return nil, err
	}
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), traceShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}, nil
}
