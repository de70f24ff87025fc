// Command report generates the agent timing report from a workbook without
// starting the web server.
//
//	report -in Gestiones.xlsx -out reports -format pdf -summary
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Galuis-18/cobra-gestiones/internal/cli"
	"github.com/Galuis-18/cobra-gestiones/internal/config"
	"github.com/Galuis-18/cobra-gestiones/internal/converter"
	"github.com/Galuis-18/cobra-gestiones/internal/infrastructure"
	"github.com/Galuis-18/cobra-gestiones/internal/report"
	"github.com/Galuis-18/cobra-gestiones/internal/services"
	"github.com/Galuis-18/cobra-gestiones/internal/validation"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// options are the parsed command line flags.
type options struct {
	in         string
	out        string
	format     domain.ReportFormat
	summary    bool
	configFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "input .xlsx workbook with the gestiones export (required)")
	out := fs.String("out", ".", "output directory for the report")
	format := fs.String("format", string(domain.ReportFormatDOCX), "report format: docx, pdf, html or csv")
	summary := fs.Bool("summary", false, "print the per-agent statistics table")
	configFile := fs.String("config", "", "optional YAML config file")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		fmt.Fprintln(stderr, contracts.GetFullVersionString())
		return nil, flag.ErrHelp
	}
	if *in == "" {
		fs.Usage()
		return nil, errors.New("-in is required")
	}

	f, err := domain.ParseReportFormat(*format)
	if err != nil {
		return nil, err
	}

	return &options{
		in:         *in,
		out:        *out,
		format:     f,
		summary:    *summary,
		configFile: *configFile,
	}, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	path, err := generate(ctx, cfg, opts, logger, stdout)
	if err != nil {
		logger.ErrorContext(ctx, "Report generation failed", slog.String("error", err.Error()))
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintln(stdout, path)
	return 0
}

func loadConfig(file string) (*config.Config, error) {
	if file != "" {
		return config.LoadFile(file)
	}
	return config.Load()
}

// generate writes the report into opts.out and returns its path.
func generate(ctx context.Context, cfg *config.Config, opts *options, logger *slog.Logger, stdout io.Writer) (string, error) {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(opts.in); err != nil {
		return "", err
	}
	if err := validator.ValidateOutputDirectory(opts.out); err != nil {
		return "", err
	}

	payload, err := os.ReadFile(opts.in)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", opts.in, err)
	}

	conv, err := converter.New(converter.Options{
		Backend:       cfg.Report.Converter,
		Binary:        cfg.Report.Binary,
		Timeout:       cfg.Report.ConversionTimeout,
		MaxConcurrent: cfg.Report.MaxConcurrent,
		Headless:      cfg.Report.ChromeHeadless,
	}, logger)
	if err != nil {
		return "", err
	}

	generator := report.NewGenerator(report.NewAssembler(cfg.Report.ImageWidth), logger)
	service := services.NewReportService(generator, conv, nil, logger)

	result, err := service.Generate(ctx, payload, opts.format)
	if err != nil {
		return "", err
	}
	if result.Fallback {
		logger.WarnContext(ctx, "PDF conversion failed, wrote DOCX instead",
			slog.String("reason", result.ConversionError))
	}

	path := filepath.Join(opts.out, result.FileName)
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	logger.InfoContext(ctx, "Report written",
		slog.String("file", path),
		slog.String("format", string(result.Format)),
		slog.Int("agents", result.Agents),
		slog.Duration("duration", result.Duration))

	if opts.summary {
		_, analyses, err := generator.Analyze(ctx, payload)
		if err != nil {
			return "", err
		}
		fmt.Fprint(stdout, cli.RenderSummary(analyses, opts.in, path))
	}

	return path, nil
}
