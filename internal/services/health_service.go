package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   contracts.VersionInfo
	converter string
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// NewHealthService creates a health service. converterName is reported so
// operators can tell which PDF backend is active.
func NewHealthService(version contracts.VersionInfo, converterName string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		converter: converterName,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version.Version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"goroutines":     runtime.NumGoroutine(),
			"converter":      hs.converter,
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":     hs.version.Version,
		"git_commit":  hs.version.GitCommit,
		"build_time":  hs.version.BuildTime,
		"go_version":  hs.version.GoVersion,
		"os":          hs.version.OS,
		"arch":        hs.version.Architecture,
		"data_format": hs.version.DataFormat,
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
}
