package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	ErrorKindIngest     ErrorKind = "ingest"
	ErrorKindValidation ErrorKind = "validation"
)

// PipelineError is returned by every stage of the analysis pipeline.
type PipelineError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Missing []string  `json:"missing,omitempty"`
	Row     int       `json:"row,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewIngestError reports a payload that could not be read as a spreadsheet.
func NewIngestError(cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindIngest,
		Message: "file could not be read as spreadsheet",
		Cause:   cause,
	}
}

// NewMissingColumnsError lists the required columns absent from the header.
func NewMissingColumnsError(missing []string) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindValidation,
		Message: "missing required columns: " + strings.Join(missing, ", "),
		Missing: missing,
	}
}

// NewTimestampError reports a row whose timestamp token could not be combined
// into a date and time.
func NewTimestampError(row int, cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindValidation,
		Message: "timestamp column could not be combined into a date and time (expected format like 2025-1001_07:44:51_O005587)",
		Row:     row,
		Cause:   cause,
	}
}

// NewValidationError reports any other content problem.
func NewValidationError(row int, message string) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindValidation,
		Message: message,
		Row:     row,
	}
}

// IsIngest reports whether err is an ingest failure.
func IsIngest(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Kind == ErrorKindIngest
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Kind == ErrorKindValidation
}
