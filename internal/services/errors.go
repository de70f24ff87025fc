package services

import "errors"

// Report service errors
var (
	ErrEmptyUpload       = errors.New("no file uploaded")
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrNoConverter       = errors.New("pdf conversion is not configured")
)
