package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/Galuis-18/cobra-gestiones/internal/errors"
	"github.com/Galuis-18/cobra-gestiones/internal/services"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Response headers describing a PDF fallback.
const (
	HeaderFallback        = "X-Report-Fallback"
	HeaderConversionError = "X-Conversion-Error"
	HeaderAgents          = "X-Report-Agents"
)

// multipart parts beyond this size spill to temp files
const formMemory = 8 << 20

// ReportRequest is the decoded upload form.
type ReportRequest struct {
	FileName string `form:"file" validate:"required,max=255"`
	Format   string `form:"format" validate:"omitempty,oneof=docx pdf html csv"`
}

// ReportHandler serves report generation requests.
type ReportHandler struct {
	service      ReportServiceInterface
	validator    FormValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, validator FormValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Generate)
	return r
}

// Generate handles POST /api/reports. The body is multipart/form-data with
// a "file" part holding the workbook and an optional "format" field.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer file.Close()

	req := ReportRequest{
		FileName: header.Filename,
		Format:   strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := domain.ParseReportFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedFormat)
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(ctx, "report requested",
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("format", string(format)),
	)

	result, err := h.service.Generate(ctx, payload, format)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyUpload):
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		case errors.Is(err, services.ErrUnsupportedFormat):
			h.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedFormat)
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	writeDownload(w, result)
}

func writeDownload(w http.ResponseWriter, result *services.ReportResult) {
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set(HeaderAgents, strconv.Itoa(result.Agents))
	if result.Fallback {
		w.Header().Set(HeaderFallback, "true")
		w.Header().Set(HeaderConversionError, headerSafe(result.ConversionError))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// headerSafe flattens converter diagnostics into a single bounded line.
func headerSafe(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const max = 512
	if len(s) > max {
		s = s[:max]
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
