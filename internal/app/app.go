package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Galuis-18/cobra-gestiones/internal/config"
	"github.com/Galuis-18/cobra-gestiones/internal/converter"
	"github.com/Galuis-18/cobra-gestiones/internal/errors"
	"github.com/Galuis-18/cobra-gestiones/internal/infrastructure"
	customMiddleware "github.com/Galuis-18/cobra-gestiones/internal/middleware"
	"github.com/Galuis-18/cobra-gestiones/internal/report"
	"github.com/Galuis-18/cobra-gestiones/internal/services"
	handlers "github.com/Galuis-18/cobra-gestiones/internal/transport/http"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts"
)

// AppName is logged at startup.
const AppName = "Generador de Reporte de Gestiones"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	ErrorHandler  *errors.ErrorHandler
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report    *services.ReportService
	Health    *services.HealthService
	Converter converter.Converter
}

// NewApplication loads the configuration and logger and builds the
// application from them.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New creates a new application instance with dependency injection
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.GetVersionString()))

	otelCfg := infrastructure.NewOTelConfig(cfg.Telemetry)
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	otelCfg.Registry = registry

	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewReportMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  errors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	conv, err := converter.New(converter.Options{
		Backend:       a.Config.Report.Converter,
		Binary:        a.Config.Report.Binary,
		Timeout:       a.Config.Report.ConversionTimeout,
		MaxConcurrent: a.Config.Report.MaxConcurrent,
		Headless:      a.Config.Report.ChromeHeadless,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}

	generator := report.NewGenerator(report.NewAssembler(a.Config.Report.ImageWidth), a.Logger)

	a.Services = &ServiceContainer{
		Converter: conv,
		Report:    services.NewReportService(generator, conv, a.Metrics, a.Logger),
		Health:    services.NewHealthService(contracts.GetVersionInfo(), conv.Name(), a.Logger),
	}
	return nil
}

// setupRouter wires middleware and routes.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → headers.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Get("/", handlers.ServeIndex(handlers.IndexPage{
		Version:     contracts.GetVersionString(),
		MaxUploadMB: int(a.Config.Server.MaxUploadMB),
	}, a.Logger))

	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler, a.Config.MaxUploadBytes())
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	reportHandler := handlers.NewReportHandler(a.Services.Report, validation, a.ErrorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.Logger,
					a.ErrorHandler,
				).Handler)
			}
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
			r.Use(customMiddleware.ContentTypeValidator(a.ErrorHandler, "multipart/form-data"))
			r.Use(validation.LimitUpload)
			r.Mount("/reports", reportHandler.Routes())
		})
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Request-ID",
			handlers.HeaderFallback,
			handlers.HeaderConversionError,
			handlers.HeaderAgents,
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in the background. A listen failure cancels
// ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("converter", a.Services.Converter.Name()),
		slog.String("level", a.Config.Logging.Level))

	a.checkConverter(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// checkConverter warns when the LibreOffice binary is missing. PDF requests
// still succeed with the DOCX fallback.
func (a *Application) checkConverter(ctx context.Context) {
	if a.Services.Converter.Name() != converter.BackendLibreOffice {
		return
	}
	binary := a.Config.Report.Binary
	if binary == "" {
		binary = "soffice"
	}
	if _, err := exec.LookPath(binary); err != nil {
		a.Logger.WarnContext(ctx, "PDF converter not found, PDF requests will fall back to DOCX",
			slog.String("binary", binary),
			slog.String("error", err.Error()))
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.ErrorContext(context.Background(), "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
