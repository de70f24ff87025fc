package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Galuis-18/cobra-gestiones/internal/converter"
	"github.com/Galuis-18/cobra-gestiones/internal/exporter"
	"github.com/Galuis-18/cobra-gestiones/internal/report"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Report outcomes recorded in metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// ReportMetrics records generation outcomes. Implemented by
// infrastructure.ReportMetrics.
type ReportMetrics interface {
	RecordReport(ctx context.Context, format, outcome string, duration time.Duration)
	RecordConversionFailure(ctx context.Context, reason string)
}

// ReportResult is a finished download.
type ReportResult struct {
	Format      domain.ReportFormat
	FileName    string
	ContentType string
	Data        []byte
	Agents      int
	Duration    time.Duration

	// Fallback is set when PDF was requested but conversion failed and Data
	// holds the DOCX instead.
	Fallback        bool
	ConversionError string
}

// ReportService generates reports in any supported format.
type ReportService struct {
	generator *report.Generator
	converter converter.Converter
	metrics   ReportMetrics
	logger    *slog.Logger
}

// NewReportService creates a report service. conv and metrics may be nil.
func NewReportService(generator *report.Generator, conv converter.Converter, metrics ReportMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		generator: generator,
		converter: conv,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "report_service")),
	}
}

// Generate runs the pipeline on payload and renders the requested format.
func (s *ReportService) Generate(ctx context.Context, payload []byte, format domain.ReportFormat) (*ReportResult, error) {
	start := time.Now()
	if len(payload) == 0 {
		return nil, ErrEmptyUpload
	}

	s.logger.InfoContext(ctx, "generating report",
		slog.String("format", string(format)),
		slog.Int("payload_bytes", len(payload)))

	var (
		result *ReportResult
		err    error
	)
	switch format {
	case domain.ReportFormatDOCX:
		result, err = s.render(ctx, payload, report.NewDocxBuilder())
	case domain.ReportFormatHTML:
		result, err = s.render(ctx, payload, report.NewHTMLBuilder())
	case domain.ReportFormatCSV:
		result, err = s.summaryCSV(ctx, payload)
	case domain.ReportFormatPDF:
		result, err = s.pdf(ctx, payload)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeError
		s.logger.WarnContext(ctx, "report generation failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	case result.Fallback:
		outcome = OutcomeFallback
	}
	if s.metrics != nil {
		s.metrics.RecordReport(ctx, string(format), outcome, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (s *ReportService) render(ctx context.Context, payload []byte, b report.Builder) (*ReportResult, error) {
	out, err := s.generator.Generate(ctx, payload, b)
	if err != nil {
		return nil, err
	}
	return newResult(out.Format, out.Data, len(out.Analyses)), nil
}

func (s *ReportService) summaryCSV(ctx context.Context, payload []byte) (*ReportResult, error) {
	_, analyses, err := s.generator.Analyze(ctx, payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := exporter.WriteSummaryCSV(&buf, analyses, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	return newResult(domain.ReportFormatCSV, buf.Bytes(), len(analyses)), nil
}

// pdf renders the converter's source format, converts it and falls back to
// DOCX on conversion failure.
func (s *ReportService) pdf(ctx context.Context, payload []byte) (*ReportResult, error) {
	if s.converter == nil {
		return s.fallback(ctx, payload, nil, ErrNoConverter)
	}

	var b report.Builder = report.NewDocxBuilder()
	if s.converter.Source() == domain.ReportFormatHTML {
		b = report.NewHTMLBuilder()
	}
	source, err := s.generator.Generate(ctx, payload, b)
	if err != nil {
		return nil, err
	}

	pdf, convErr := s.converter.Convert(ctx, source.Data)
	if convErr == nil {
		return newResult(domain.ReportFormatPDF, pdf, len(source.Analyses)), nil
	}

	var docx *report.Outcome
	if source.Format == domain.ReportFormatDOCX {
		docx = source
	}
	return s.fallback(ctx, payload, docx, convErr)
}

func (s *ReportService) fallback(ctx context.Context, payload []byte, docx *report.Outcome, cause error) (*ReportResult, error) {
	reason := string(converter.ReasonUnavailable)
	var ce *converter.ConversionError
	if errors.As(cause, &ce) {
		reason = string(ce.Reason)
	}
	if s.metrics != nil {
		s.metrics.RecordConversionFailure(ctx, reason)
	}
	s.logger.WarnContext(ctx, "pdf conversion failed, returning docx",
		slog.String("reason", reason),
		slog.String("error", cause.Error()))

	if docx == nil {
		var err error
		if docx, err = s.generator.Generate(ctx, payload, report.NewDocxBuilder()); err != nil {
			return nil, err
		}
	}

	result := newResult(domain.ReportFormatDOCX, docx.Data, len(docx.Analyses))
	result.Fallback = true
	result.ConversionError = cause.Error()
	return result, nil
}

func newResult(format domain.ReportFormat, data []byte, agents int) *ReportResult {
	return &ReportResult{
		Format:      format,
		FileName:    format.FileName(),
		ContentType: format.ContentType(),
		Data:        data,
		Agents:      agents,
	}
}
