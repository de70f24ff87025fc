// Package converter turns a rendered report into PDF with an external tool.
// Conversion failures are reported as *ConversionError so callers can fall
// back to the unconverted document.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Converter produces a PDF from a document in its Source format.
type Converter interface {
	Name() string
	Source() domain.ReportFormat
	Convert(ctx context.Context, src []byte) ([]byte, error)
}

// Reason classifies a conversion failure.
type Reason string

const (
	ReasonTimeout       Reason = "timeout"
	ReasonExit          Reason = "exit"
	ReasonMissingOutput Reason = "missing_output"
	ReasonUnavailable   Reason = "unavailable"
)

// ConversionError carries the converter's diagnostic output.
type ConversionError struct {
	Converter string
	Reason    Reason
	Output    string
	Cause     error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%s conversion failed (%s)", e.Converter, e.Reason)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// IsConversionError reports whether err is a *ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

// Options configure the converters.
type Options struct {
	Backend       string // "libreoffice" or "chrome"
	Binary        string
	Timeout       time.Duration
	MaxConcurrent int64
	Headless      bool
}

// New returns the converter selected by opts.Backend.
func New(opts Options, logger *slog.Logger) (Converter, error) {
	switch opts.Backend {
	case "", BackendLibreOffice:
		return NewLibreOffice(opts, logger), nil
	case BackendChrome:
		return NewChrome(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown converter backend %q", opts.Backend)
	}
}

// Backend names.
const (
	BackendLibreOffice = "libreoffice"
	BackendChrome      = "chrome"
)

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 30 * time.Second
