package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// LibreOffice converts DOCX to PDF with a headless office suite.
type LibreOffice struct {
	binary  string
	timeout time.Duration
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// NewLibreOffice creates a LibreOffice converter. The binary defaults to
// "soffice".
func NewLibreOffice(opts Options, logger *slog.Logger) *LibreOffice {
	if opts.Binary == "" {
		opts.Binary = "soffice"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LibreOffice{
		binary:  opts.Binary,
		timeout: opts.Timeout,
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
		logger:  logger.With(slog.String("converter", BackendLibreOffice)),
	}
}

func (c *LibreOffice) Name() string { return BackendLibreOffice }

func (c *LibreOffice) Source() domain.ReportFormat { return domain.ReportFormatDOCX }

// Convert writes src to a scratch directory, runs
// "<binary> --headless --convert-to pdf --outdir DIR FILE" and reads back the
// PDF named after the input. The scratch directory is removed on every path.
func (c *LibreOffice) Convert(ctx context.Context, src []byte) ([]byte, error) {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonUnavailable, Cause: err}
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonTimeout, Cause: err}
	}
	defer c.sem.Release(1)

	dir, err := os.MkdirTemp("", "gestiones-convert-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, uuid.NewString()+domain.ReportFormatDOCX.Extension())
	if err := os.WriteFile(input, src, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write scratch document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--headless", "--convert-to", "pdf", "--outdir", dir, input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	output := strings.TrimSpace(stderr.String())
	if output == "" {
		output = strings.TrimSpace(stdout.String())
	}

	c.logger.DebugContext(ctx, "converter finished",
		slog.Duration("duration", time.Since(start)),
		slog.Bool("failed", runErr != nil))

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ConversionError{Converter: c.Name(), Reason: ReasonTimeout, Output: output,
				Cause: fmt.Errorf("no result after %s", c.timeout)}
		}
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonExit, Output: output, Cause: runErr}
	}

	pdfPath := strings.TrimSuffix(input, filepath.Ext(input)) + domain.ReportFormatPDF.Extension()
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonMissingOutput, Output: output, Cause: err}
	}
	return pdf, nil
}
