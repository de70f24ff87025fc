package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Galuis-18/cobra-gestiones/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTelMetrics(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{EnableMetrics: true, TraceExporter: "none"})
	cfg.Registry = prom.NewRegistry()

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := NewReportMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReport(ctx, "pdf", "fallback", 2*time.Second)
	metrics.RecordConversionFailure(ctx, "timeout")
	metrics.RecordHTTPRequest(ctx, http.MethodPost, "/api/reports", http.StatusOK, time.Second)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, "reports_generated_total")
	assert.Contains(t, body, `outcome="fallback"`)
	assert.Contains(t, body, "pdf_conversion_failures_total")
	assert.Contains(t, body, `reason="timeout"`)
	assert.Contains(t, body, "http_request_duration_seconds")
}

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{TraceExporter: "none"})

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.MeterProvider)

	metrics, err := NewReportMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordReport(context.Background(), "docx", "success", time.Millisecond)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelBadExporter(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{EnableTracing: true, TraceExporter: "jaeger"})
	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}
