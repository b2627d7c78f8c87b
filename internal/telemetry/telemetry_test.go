package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStats_ObserveStart(t *testing.T) {
	s := NewStats()
	s.ObserveStart(true, 150*time.Millisecond, 120)
	s.ObserveStart(true, 80*time.Millisecond, 90)
	s.ObserveStart(false, time.Second, 2000)

	assert.InDelta(t, 2, testutil.ToFloat64(s.starts.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.starts.WithLabelValues("false")), 0)
	assert.InDelta(t, 2210, testutil.ToFloat64(s.evaluations), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(s.startDuration))
}

func TestStats_ObserveSimulation(t *testing.T) {
	s := NewStats()
	s.ObserveSimulation(false, 3*time.Millisecond)
	s.ObserveSimulation(true, 0)
	s.ObserveSimulation(true, 0)

	assert.InDelta(t, 1, testutil.ToFloat64(s.simulations.WithLabelValues("miss")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(s.simulations.WithLabelValues("hit")), 0)
}

func TestStats_Handler(t *testing.T) {
	s := NewStats()
	s.RecHTTP(http.StatusOK, http.MethodGet)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `helmholtz_http_requests_total{code="200",method="GET"} 1`))
}

func TestStats_Independent(t *testing.T) {
	a, b := NewStats(), NewStats()
	a.RecHTTP(200, "GET")
	assert.InDelta(t, 0, testutil.ToFloat64(b.requests.WithLabelValues("200", "GET")), 0)
}

func TestInstall(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exp := tracetest.NewInMemoryExporter()
	tp := Install(exp)

	_, span := otel.Tracer("test").Start(context.Background(), "simulate")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "simulate", spans[0].Name)
	require.NoError(t, tp.Shutdown(context.Background()))
}
