package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tphakala/go-helmholtz"
	"github.com/tphakala/go-helmholtz/internal/export"
	"github.com/tphakala/go-helmholtz/internal/store"
)

// simulateHandler runs a forward simulation of the posted configuration.
// Absent conditions and sweep fields take their defaults.
func (s *Server) simulateHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: read body: %w", helmholtz.ErrValidation, err))
		return
	}
	cfg, err := helmholtz.ParseConfig(data, ".json")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, cached, err := s.simulate(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, rec)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, rec.Table()); err != nil {
			s.logger.Error("csv export failed", slog.Any("error", err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(w, rec.Table()); err != nil {
			s.logger.Error("xlsx export failed", slog.Any("error", err))
		}
	default:
		s.writeError(w, r, fmt.Errorf("%w: unknown format %q", helmholtz.ErrValidation, format))
	}
}

// simulate serves cfg from the cache when possible.
func (s *Server) simulate(cfg helmholtz.Config) (*helmholtz.Record, bool, error) {
	var key []byte
	if s.cache != nil {
		canonical, err := json.Marshal(cfg)
		if err != nil {
			return nil, false, err
		}
		key = store.Key(simulateNamespace+"/"+helmholtz.Version, canonical)

		var rec helmholtz.Record
		err = s.cache.GetJSON(key, &rec)
		switch {
		case err == nil:
			s.stats.ObserveSimulation(true, 0)
			return &rec, true, nil
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn("cache read failed", slog.Any("error", err))
		}
	}

	start := time.Now()
	rec, err := helmholtz.Simulate(cfg)
	if err != nil {
		return nil, false, err
	}
	s.stats.ObserveSimulation(false, time.Since(start))

	if s.cache != nil {
		if err := s.cache.PutJSON(key, rec); err != nil {
			s.logger.Warn("cache write failed", slog.Any("error", err))
		}
	}
	return rec, false, nil
}
