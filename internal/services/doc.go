// Package services holds the business logic behind the HTTP handlers and the
// CLI.
//
// ReportService turns an uploaded workbook into a downloadable report in the
// requested format. PDF requests render an intermediate document, hand it to
// the configured converter and, when conversion fails, return the DOCX
// instead with the failure recorded on the result.
//
// HealthService reports liveness and build information.
//
// Services take their collaborators and a *slog.Logger by constructor
// injection and propagate context.Context for tracing.
package services
