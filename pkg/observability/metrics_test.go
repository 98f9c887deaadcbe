package observability

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics(MetricsConfig{Registry: registry})
	require.NoError(t, err)

	m.RecordCall(context.Background(), "tools/call", "ok", 42*time.Millisecond)
	m.RecordToolCall("docs_document_create", "ok")
	m.RecordLaunch("ok")
	m.RecordFailure("transport")

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.callsTotal.WithLabelValues("tools/call", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.toolCalls.WithLabelValues("docs_document_create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.launches.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.failures.WithLabelValues("transport")))
}

func TestNewMetricsDoubleRegisterFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics(MetricsConfig{Registry: registry})
	require.NoError(t, err)

	_, err = NewMetrics(MetricsConfig{Registry: registry})
	assert.Error(t, err, "the same registry cannot hold the metric set twice")
}

func TestMetricsHandler(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{})
	require.NoError(t, err)
	m.RecordCall(context.Background(), "initialize", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mcp_client_requests_total"))
}

func TestInstrumentationNilParts(t *testing.T) {
	instr := NewInstrumentation(nil, nil)

	ctx, finish := instr.StartSpan(context.Background(), "tools/list")
	assert.NotNil(t, ctx)
	finish(nil)

	// Recording without metrics must be a no-op, not a panic.
	instr.RecordCall(context.Background(), "tools/list", "ok", time.Millisecond)
	instr.RecordToolCall("accounts_list", "ok")
}

func TestTracingProviderNoop(t *testing.T) {
	provider, err := NewTracingProvider(TracingConfig{
		ServiceName:    "test-client",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		ExporterType:   ExporterTypeNoop,
	})
	require.NoError(t, err, "provider construction must not fail on resource attributes")

	instr := NewInstrumentation(nil, provider.Tracer())
	ctx, finish := instr.StartSpan(context.Background(), "tools/call")
	assert.NotNil(t, ctx)
	finish(assert.AnError)

	require.NoError(t, provider.Shutdown(context.Background()))
	// Shutdown twice is safe.
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestTracingProviderUnknownExporter(t *testing.T) {
	_, err := NewTracingProvider(TracingConfig{ExporterType: "jaeger"})
	assert.Error(t, err)
}
