package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Galuis-18/cobra-gestiones/internal/dataprocessing"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

var tracer = otel.Tracer("github.com/Galuis-18/cobra-gestiones/internal/report")

// Outcome is a rendered report plus the statistics behind it.
type Outcome struct {
	Format   domain.ReportFormat
	Data     []byte
	Analyses []domain.AgentAnalysis
	Sheet    *dataprocessing.Sheet
	Duration time.Duration
}

// Generator runs the analysis pipeline and renders the result.
type Generator struct {
	assembler *Assembler
	logger    *slog.Logger
}

// NewGenerator creates a generator. A nil assembler draws 6-inch charts.
func NewGenerator(assembler *Assembler, logger *slog.Logger) *Generator {
	if assembler == nil {
		assembler = NewAssembler(6.0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{assembler: assembler, logger: logger}
}

// Analyze runs the pipeline without rendering a document.
func (g *Generator) Analyze(ctx context.Context, payload []byte) (*dataprocessing.Sheet, []domain.AgentAnalysis, error) {
	ctx, span := tracer.Start(ctx, "report.analyze")
	defer span.End()

	sheet, err := dataprocessing.Normalize(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	timed, err := dataprocessing.ComputeDeltas(sheet.Records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	analyses := dataprocessing.Analyze(timed)

	span.SetAttributes(
		attribute.Int("report.records", len(sheet.Records)),
		attribute.Int("report.agents", len(analyses)),
	)
	g.logger.InfoContext(ctx, "workbook analyzed",
		slog.String("sheet", sheet.Name),
		slog.Bool("header_shifted", sheet.HeaderShifted),
		slog.Int("records", len(sheet.Records)),
		slog.Int("test_rows_dropped", sheet.TestRows),
		slog.Int("blank_agent_rows", sheet.BlankAgents),
		slog.Int("agents", len(analyses)))

	return sheet, analyses, nil
}

// Generate analyzes payload and renders it with b.
func (g *Generator) Generate(ctx context.Context, payload []byte, b Builder) (*Outcome, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "report.generate")
	defer span.End()
	span.SetAttributes(attribute.String("report.format", string(b.Format())))
	if c, ok := b.(io.Closer); ok {
		defer c.Close()
	}

	sheet, analyses, err := g.Analyze(ctx, payload)
	if err != nil {
		return nil, err
	}

	content := Content{Analyses: analyses, AgentsSeen: countAgents(sheet.Records)}
	if err := g.assembler.Assemble(b, content); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to assemble report: %w", err)
	}

	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := &Outcome{
		Format:   b.Format(),
		Data:     buf.Bytes(),
		Analyses: analyses,
		Sheet:    sheet,
		Duration: time.Since(start),
	}
	g.logger.InfoContext(ctx, "report generated",
		slog.String("format", string(out.Format)),
		slog.Int("bytes", len(out.Data)),
		slog.Duration("duration", out.Duration))
	return out, nil
}

func countAgents(records []domain.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Agent] = struct{}{}
	}
	return len(seen)
}
