// Package server exposes simulation and optimization over HTTP.
//
// Routes:
//
//	GET  /api/version
//	GET  /api/presets
//	GET  /api/presets/{name}
//	POST /api/simulate           body: Config, ?format=json|csv|xlsx
//	POST /api/optimize           body: OptimizeRequest
//	GET  /ws/optimize            first message: OptimizeRequest
//	GET  /metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tphakala/go-helmholtz"
	"github.com/tphakala/go-helmholtz/internal/store"
	"github.com/tphakala/go-helmholtz/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options configures a Server.
type Options struct {
	// Cache stores simulation records by request. Nil disables caching.
	Cache *store.Cache
	// Stats collects Prometheus metrics. Nil creates a private set.
	Stats *telemetry.Stats
	// Logger receives request errors. Nil discards them.
	Logger *slog.Logger
	// MaxStarts caps the starts a client may request.
	MaxStarts int
	// Workers is the optimizer pool size, 0 for every CPU.
	Workers int
}

// Server handles the HTTP API.
type Server struct {
	cache     *store.Cache
	stats     *telemetry.Stats
	logger    *slog.Logger
	maxStarts int
	workers   int
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		cache:     opts.Cache,
		stats:     opts.Stats,
		logger:    opts.Logger,
		maxStarts: opts.MaxStarts,
		workers:   opts.Workers,
	}
	if s.stats == nil {
		s.stats = telemetry.NewStats()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.maxStarts <= 0 {
		s.maxStarts = DefaultMaxStarts
	}
	return s
}

// Stats returns the metrics the server records into.
func (s *Server) Stats() *telemetry.Stats { return s.stats }

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", s.stats.Handler())
	r.HandleFunc("/ws/optimize", s.optimizeStreamHandler)

	// API routes live on the root router so method mismatches get 405.
	api := func(path, method string, h http.HandlerFunc) {
		r.Handle("/api"+path, s.statsMiddleware(h)).Methods(method)
	}
	api("/version", http.MethodGet, s.versionHandler)
	api("/presets", http.MethodGet, s.presetsHandler)
	api("/presets/{name}", http.MethodGet, s.presetHandler)
	api("/simulate", http.MethodPost, s.simulateHandler)
	api("/optimize", http.MethodPost, s.optimizeHandler)

	return r
}

// Handler returns the router wrapped in OpenTelemetry instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.Router(), "helmholtz")
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// respWriter records the status code for the request counter.
type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) statsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &respWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.stats.RecHTTP(wrapped.status, r.Method)
	})
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": helmholtz.Version})
}

func (s *Server) presetsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, helmholtz.PresetNames())
}

func (s *Server) presetHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := helmholtz.Preset(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// errorBody is the JSON error payload.
type errorBody struct {
	Error      string                        `json:"error"`
	Field      string                        `json:"field,omitempty"`
	Constraint string                        `json:"constraint,omitempty"`
	Report     *helmholtz.OptimizationReport `json:"report,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, helmholtz.ErrUnknownPreset):
		return http.StatusNotFound
	case errors.Is(err, helmholtz.ErrValidation), errors.Is(err, helmholtz.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, helmholtz.ErrNoSolution), errors.Is(err, helmholtz.ErrNumericalDegeneracy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var fe *helmholtz.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
		body.Constraint = fe.Constraint
	}
	return body
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeJSON(w, status, newErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
