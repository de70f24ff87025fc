package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Galuis-18/cobra-gestiones/internal/dataprocessing"
	apierrors "github.com/Galuis-18/cobra-gestiones/internal/errors"
	"github.com/Galuis-18/cobra-gestiones/internal/middleware"
	"github.com/Galuis-18/cobra-gestiones/internal/services"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, payload []byte, format domain.ReportFormat) (*services.ReportResult, error) {
	args := m.Called(payload, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReportResult), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestReportHandler(svc ReportServiceInterface) (*ReportHandler, *middleware.ValidationMiddleware) {
	errorHandler := apierrors.NewErrorHandler(testLogger(), false)
	vm := middleware.NewValidationMiddleware(testLogger(), errorHandler, 1<<20)
	return NewReportHandler(svc, vm, errorHandler, testLogger()), vm
}

func uploadRequest(t *testing.T, fileName string, content []byte, format string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func docxResult(data []byte) *services.ReportResult {
	return &services.ReportResult{
		Format:      domain.ReportFormatDOCX,
		FileName:    domain.ReportFormatDOCX.FileName(),
		ContentType: domain.ReportFormatDOCX.ContentType(),
		Data:        data,
		Agents:      3,
		Duration:    time.Second,
	}
}

func TestReportHandler_Generate(t *testing.T) {
	payload := []byte("PK fake workbook")

	tests := []struct {
		name         string
		format       string
		wantFormat   domain.ReportFormat
		result       *services.ReportResult
		wantType     string
		wantFileName string
		wantFallback string
	}{
		{
			name:         "default format is docx",
			wantFormat:   domain.ReportFormatDOCX,
			result:       docxResult([]byte("docx-bytes")),
			wantType:     domain.ReportFormatDOCX.ContentType(),
			wantFileName: "Reporte_Tiempos_Cobradores.docx",
		},
		{
			name:       "pdf",
			format:     "PDF",
			wantFormat: domain.ReportFormatPDF,
			result: &services.ReportResult{
				Format:      domain.ReportFormatPDF,
				FileName:    domain.ReportFormatPDF.FileName(),
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.4"),
			},
			wantType:     "application/pdf",
			wantFileName: "Reporte_Tiempos_Cobradores.pdf",
		},
		{
			name:       "pdf fallback",
			format:     "pdf",
			wantFormat: domain.ReportFormatPDF,
			result: func() *services.ReportResult {
				r := docxResult([]byte("docx-bytes"))
				r.Fallback = true
				r.ConversionError = "libreoffice conversion failed (exit): Error: source file\ncould not be loaded"
				return r
			}(),
			wantType:     domain.ReportFormatDOCX.ContentType(),
			wantFileName: "Reporte_Tiempos_Cobradores.docx",
			wantFallback: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("Generate", payload, tt.wantFormat).Return(tt.result, nil)
			h, _ := newTestReportHandler(svc)

			rec := httptest.NewRecorder()
			h.Generate(rec, uploadRequest(t, "Gestiones.xlsx", payload, tt.format))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.result.Data, rec.Body.Bytes())
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename=`+tt.wantFileName, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, tt.wantFallback, rec.Header().Get(HeaderFallback))
			if tt.wantFallback != "" {
				assert.Equal(t, "libreoffice conversion failed (exit): Error: source file could not be loaded",
					rec.Header().Get(HeaderConversionError))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		serviceErr error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("{}"))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeBadRequest,
		},
		{
			name: "missing file",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "", nil, "docx")
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeBadRequest,
			wantDetail: "No spreadsheet was uploaded",
		},
		{
			name: "unknown format",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "g.xlsx", []byte("x"), "odt")
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name: "unreadable spreadsheet",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "g.xlsx", []byte("not a zip"), "docx")
			},
			serviceErr: dataprocessing.NewIngestError(errors.New("zip: not a valid zip file")),
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeIngest,
			wantDetail: "file could not be read as spreadsheet: zip: not a valid zip file",
		},
		{
			name: "missing columns",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "g.xlsx", []byte("x"), "docx")
			},
			serviceErr: dataprocessing.NewMissingColumnsError([]string{"No. de Contrato"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeValidation,
			wantDetail: "missing required columns: No. de Contrato",
		},
		{
			name: "empty upload",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "g.xlsx", []byte("x"), "docx")
			},
			serviceErr: services.ErrEmptyUpload,
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeBadRequest,
		},
		{
			name: "unexpected failure",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "g.xlsx", []byte("x"), "docx")
			},
			serviceErr: errors.New("render failed"),
			wantStatus: http.StatusInternalServerError,
			wantType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			if tt.serviceErr != nil {
				svc.On("Generate", mock.Anything, domain.ReportFormatDOCX).Return(nil, tt.serviceErr)
			}
			h, _ := newTestReportHandler(svc)

			rec := httptest.NewRecorder()
			h.Generate(rec, tt.request(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_UploadLimit(t *testing.T) {
	tests := []struct {
		name          string
		contentLength int64
	}{
		{name: "declared length", contentLength: 0},
		{name: "streamed body", contentLength: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			h, vm := newTestReportHandler(svc)

			router := chi.NewRouter()
			router.Group(func(r chi.Router) {
				r.Use(vm.LimitUpload)
				r.Mount("/api/reports", h.Routes())
			})

			req := uploadRequest(t, "big.xlsx", bytes.Repeat([]byte("x"), 2<<20), "docx")
			if tt.contentLength != 0 {
				req.ContentLength = tt.contentLength
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
			assert.Equal(t, "/errors/payload-too-large", decodeBody(t, rec)["type"])
			svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestHeaderSafe(t *testing.T) {
	assert.Equal(t, "a b c", headerSafe("a\n b\t\tc\r\n"))
	assert.Equal(t, "caf?", headerSafe("café"))
	assert.Len(t, headerSafe(strings.Repeat("x", 2000)), 512)
}

func TestHealthHandler(t *testing.T) {
	svc := services.NewHealthService(contracts.GetVersionInfo(), "libreoffice", testLogger())
	h := NewHealthHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, contracts.Version, body["version"])

	rec = httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	body = decodeBody(t, rec)
	assert.Equal(t, contracts.DataFormatVersion, body["data_format"])
}

func TestServeIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	ServeIndex(IndexPage{Version: "Reporte de Gestiones v1.0.0", MaxUploadMB: 32}, testLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	page := rec.Body.String()
	assert.Contains(t, page, `action="/api/reports"`)
	assert.Contains(t, page, `name="file"`)
	assert.Contains(t, page, `value="docx" checked`)
	assert.Contains(t, page, `value="pdf"`)
	assert.Contains(t, page, "Tamaño máximo: 32 MB")
	assert.Contains(t, page, "Reporte de Gestiones v1.0.0")
}
