// Package app wires the report service together: configuration, logging,
// OpenTelemetry, the PDF converter, services and the chi router.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config file, GESTIONES_* environment)
//	2. Initialize the slog logger
//	3. Initialize OpenTelemetry with a private Prometheus registry
//	4. Build the converter, report generator and services
//	5. Mount middleware and routes
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM and then drains in-flight requests
// within Server.ShutdownTimeout before flushing telemetry.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit.
package app
