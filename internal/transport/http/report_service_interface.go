package http

import (
	"context"

	"github.com/Galuis-18/cobra-gestiones/internal/services"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// ReportServiceInterface defines the interface for report generation
type ReportServiceInterface interface {
	Generate(ctx context.Context, payload []byte, format domain.ReportFormat) (*services.ReportResult, error)
}

// FormValidator validates decoded form structs.
type FormValidator interface {
	ValidateStruct(v interface{}) error
}
