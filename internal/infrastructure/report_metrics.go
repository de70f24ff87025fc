package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReportMetrics records report generation outcomes.
type ReportMetrics struct {
	ReportsTotal       metric.Int64Counter
	GenerationDuration metric.Float64Histogram
	ConversionFailures metric.Int64Counter
	HTTPRequestsTotal  metric.Int64Counter
	HTTPDuration       metric.Float64Histogram
}

// NewReportMetrics registers the application instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	reportsTotal, err := meter.Int64Counter(
		"reports_generated_total",
		metric.WithDescription("Total number of report generations by format and outcome"),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"report_generation_duration_seconds",
		metric.WithDescription("Report generation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	conversionFailures, err := meter.Int64Counter(
		"pdf_conversion_failures_total",
		metric.WithDescription("Total number of failed PDF conversions by reason"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		ReportsTotal:       reportsTotal,
		GenerationDuration: generationDuration,
		ConversionFailures: conversionFailures,
		HTTPRequestsTotal:  httpRequestsTotal,
		HTTPDuration:       httpDuration,
	}, nil
}

// RecordReport counts one generation and its duration.
func (m *ReportMetrics) RecordReport(ctx context.Context, format, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("outcome", outcome),
	)
	m.ReportsTotal.Add(ctx, 1, attrs)
	m.GenerationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordConversionFailure counts a failed PDF conversion.
func (m *ReportMetrics) RecordConversionFailure(ctx context.Context, reason string) {
	m.ConversionFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordHTTPRequest counts one served request.
func (m *ReportMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDuration.Record(ctx, duration.Seconds(), attrs)
}
