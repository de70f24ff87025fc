package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Galuis-18/cobra-gestiones/internal/config"
	apierrors "github.com/Galuis-18/cobra-gestiones/internal/errors"
	"github.com/Galuis-18/cobra-gestiones/internal/infrastructure"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func problemType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	typ, _ := body["type"].(string)
	return typ
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = infrastructure.GetTraceID(r.Context())
		assert.Equal(t, seen, GetRequestID(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", seen)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(testErrorHandler())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.TypeInternal, problemType(t, rec))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, testLogger(), testErrorHandler())
	h := rl.Handler(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, apierrors.TypeRateLimit, problemType(t, rec))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}, ExposedHeaders: []string{"X-Report-Fallback"}})(okHandler)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", http.MethodPost, "http://localhost:8080", http.StatusOK, "http://localhost:8080"},
		{"foreign origin", http.MethodPost, "http://evil.test", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:8080", http.StatusNoContent, "http://localhost:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reports", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "X-Report-Fallback", rec.Header().Get("Access-Control-Expose-Headers"))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestLimitUpload(t *testing.T) {
	vm := NewValidationMiddleware(testLogger(), testErrorHandler(), 8)

	var readErr error
	h := vm.LimitUpload(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	t.Run("declared length over limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, apierrors.TypePayloadTooLarge, problemType(t, rec))
	})

	t.Run("undeclared length is capped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("0123456789"))
		req.ContentLength = -1
		h.ServeHTTP(httptest.NewRecorder(), req)

		var tooLarge *http.MaxBytesError
		assert.ErrorAs(t, readErr, &tooLarge)
	})

	t.Run("get passes through", func(t *testing.T) {
		readErr = nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NoError(t, readErr)
	})

	assert.Equal(t, int64(8), vm.MaxBodySize())
	assert.Equal(t, int64(32<<20), NewValidationMiddleware(testLogger(), testErrorHandler(), 0).MaxBodySize())
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		FileName string `form:"file" validate:"required,max=8"`
		Format   string `form:"format" validate:"required,oneof=docx pdf html csv"`
	}
	vm := NewValidationMiddleware(testLogger(), testErrorHandler(), 0)

	assert.NoError(t, vm.ValidateStruct(form{FileName: "g.xlsx", Format: "pdf"}))

	err := vm.ValidateStruct(form{FileName: "gestiones.xlsx", Format: "odt"})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	details, ok := apiErr.Details.([]apierrors.ValidationError)
	require.True(t, ok)
	assert.Equal(t, []apierrors.ValidationError{
		{Field: "file", Message: "file must be at most 8"},
		{Field: "format", Message: "format must be one of: docx, pdf, html, csv"},
	}, details)
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator(testErrorHandler(), "multipart/form-data")(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOTelMiddleware(t *testing.T) {
	cfg := infrastructure.NewOTelConfig(config.TelemetryConfig{EnableMetrics: true, TraceExporter: "none"})
	cfg.Registry = prom.NewRegistry()
	providers, err := infrastructure.InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewReportMetrics(providers.Meter)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(providers.Tracer, metrics).Handler)
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, `route="/api/health"`)
	assert.Contains(t, body, `status="418"`)
}
