package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Chrome prints the HTML rendition of a report to PDF with a headless
// browser.
type Chrome struct {
	execPath string
	headless bool
	timeout  time.Duration
	sem      *semaphore.Weighted
	logger   *slog.Logger
}

// NewChrome creates a Chrome converter. An empty Binary lets chromedp find
// the browser.
func NewChrome(opts Options, logger *slog.Logger) *Chrome {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chrome{
		execPath: opts.Binary,
		headless: opts.Headless,
		timeout:  opts.Timeout,
		sem:      semaphore.NewWeighted(opts.MaxConcurrent),
		logger:   logger.With(slog.String("converter", BackendChrome)),
	}
}

func (c *Chrome) Name() string { return BackendChrome }

func (c *Chrome) Source() domain.ReportFormat { return domain.ReportFormatHTML }

// Convert loads src into a blank page and prints it with backgrounds.
func (c *Chrome) Convert(ctx context.Context, src []byte) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonTimeout, Cause: err}
	}
	defer c.sem.Release(1)

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", c.headless))
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(src)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)

	c.logger.DebugContext(ctx, "converter finished",
		slog.Duration("duration", time.Since(start)),
		slog.Bool("failed", err != nil))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ConversionError{Converter: c.Name(), Reason: ReasonTimeout,
				Cause: fmt.Errorf("no result after %s", c.timeout)}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &ConversionError{Converter: c.Name(), Reason: ReasonUnavailable, Cause: err}
		}
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonExit, Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &ConversionError{Converter: c.Name(), Reason: ReasonMissingOutput}
	}
	return pdf, nil
}
