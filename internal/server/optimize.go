package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tphakala/go-helmholtz"
)

// OptimizeRequest describes an optimization job. Zero fields take the
// library defaults.
type OptimizeRequest struct {
	TargetFrequency float64           `json:"target_frequency"`
	TargetQ         float64           `json:"target_q"`
	Starts          int               `json:"starts,omitempty"`
	Seed            uint64            `json:"seed,omitempty"`
	ValuesPerOctave int               `json:"values_per_octave,omitempty"`
	MaxEvaluations  int               `json:"max_evaluations,omitempty"`
	Bounds          *helmholtz.Bounds `json:"bounds,omitempty"`
}

func (s *Server) options(req OptimizeRequest) ([]helmholtz.OptimizeOption, error) {
	if req.Starts > s.maxStarts {
		return nil, fmt.Errorf("%w: starts must be <= %d, got %d", helmholtz.ErrValidation, s.maxStarts, req.Starts)
	}
	if req.ValuesPerOctave > maxValuesPerOctave {
		return nil, fmt.Errorf("%w: values_per_octave must be <= %d, got %d", helmholtz.ErrValidation, maxValuesPerOctave, req.ValuesPerOctave)
	}
	if req.MaxEvaluations > maxEvaluations {
		return nil, fmt.Errorf("%w: max_evaluations must be <= %d, got %d", helmholtz.ErrValidation, maxEvaluations, req.MaxEvaluations)
	}
	opts := []helmholtz.OptimizeOption{
		helmholtz.WithWorkers(s.workers),
		helmholtz.WithSeed(req.Seed),
		helmholtz.WithLogger(s.logger),
		helmholtz.WithMetrics(s.stats),
	}
	if req.Starts > 0 {
		opts = append(opts, helmholtz.WithStarts(req.Starts))
	}
	if req.ValuesPerOctave > 0 {
		opts = append(opts, helmholtz.WithValuesPerOctave(req.ValuesPerOctave))
	}
	if req.MaxEvaluations > 0 {
		opts = append(opts, helmholtz.WithMaxEvaluations(req.MaxEvaluations))
	}
	if req.Bounds != nil {
		opts = append(opts, helmholtz.WithBounds(*req.Bounds))
	}
	return opts, nil
}

func decodeRequest(data []byte) (OptimizeRequest, error) {
	var req OptimizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: decode request: %w", helmholtz.ErrValidation, err)
	}
	return req, nil
}

// optimizeHandler runs a search to completion and returns the report.
func (s *Server) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode request: %w", helmholtz.ErrValidation, err))
		return
	}
	opts, err := s.options(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, err := helmholtz.Optimize(r.Context(), req.TargetFrequency, req.TargetQ, opts...)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("optimization failed", slog.Any("error", err))
		}
		body := newErrorBody(err)
		body.Report = rep
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// streamMessage is one websocket frame of an optimization stream.
type streamMessage struct {
	Type   string                        `json:"type"`
	Done   int                           `json:"done,omitempty"`
	Total  int                           `json:"total,omitempty"`
	Result *helmholtz.OptimizationResult `json:"result,omitempty"`
	Report *helmholtz.OptimizationReport `json:"report,omitempty"`
	Error  string                        `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// optimizeStreamHandler reads one OptimizeRequest, streams a progress frame
// per finished start, then the report or an error. Closing the connection
// cancels the search.
func (s *Server) optimizeStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return
	}
	req, err := decodeRequest(data)
	if err != nil {
		_ = conn.WriteJSON(streamMessage{Type: msgError, Error: err.Error()})
		return
	}
	opts, err := s.options(req)
	if err != nil {
		_ = conn.WriteJSON(streamMessage{Type: msgError, Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Any read error, including a client close, stops the search.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	// Progress runs on the optimizer's single collecting goroutine, and
	// the final write happens after Optimize returns, so writes never overlap.
	opts = append(opts, helmholtz.WithProgress(func(done, total int, res helmholtz.OptimizationResult) {
		if err := conn.WriteJSON(streamMessage{Type: msgProgress, Done: done, Total: total, Result: &res}); err != nil {
			cancel()
		}
	}))

	rep, err := helmholtz.Optimize(ctx, req.TargetFrequency, req.TargetQ, opts...)
	if err != nil {
		if !errors.Is(err, helmholtz.ErrNoSolution) && !errors.Is(err, helmholtz.ErrValidation) {
			s.logger.Warn("streamed optimization failed", slog.Any("error", err))
		}
		_ = conn.WriteJSON(streamMessage{Type: msgError, Error: err.Error(), Report: rep})
		return
	}
	_ = conn.WriteJSON(streamMessage{Type: msgReport, Report: rep})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
