// Package config loads the application configuration.
//
// Values come from three layers, later ones winning:
//
//  1. Default()
//  2. a YAML file: $GESTIONES_CONFIG, ./config.yaml or ./configs/config.yaml
//  3. environment variables prefixed GESTIONES_, e.g. GESTIONES_SERVER_PORT,
//     GESTIONES_REPORT_CONVERTER, GESTIONES_REPORT_CONVERSION_TIMEOUT
//
// The result is validated with struct tags before use.
package config
