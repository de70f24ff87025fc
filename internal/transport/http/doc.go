// Package http implements the HTTP handlers for the report service.
// Handlers stay thin: they decode the request, call a service and format the
// response. Everything else lives in internal/services.
//
// # Routes
//
//	GET  /              upload form (embedded HTML)
//	POST /api/reports   multipart upload, returns the report as a download
//	GET  /api/health    health status
//	GET  /api/version   build information
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → ReportService
//	                                              ↓
//	HTTP Response ← Handler ← ReportResult ←─────┘
//
// # Error Handling
//
// Failures are answered with RFC 7807 problem documents through
// errors.ErrorHandler. Spreadsheet diagnostics are passed through verbatim:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Invalid Spreadsheet Content",
//	    "status": 422,
//	    "detail": "missing required columns: No. de Contrato",
//	    "instance": "/api/reports"
//	}
//
// A failed PDF conversion is not an error. The DOCX is returned with
// X-Report-Fallback: true and the converter diagnostic in X-Conversion-Error.
//
// # Testing
//
// Handlers are tested with httptest and a testify mock of the report service.
package http
