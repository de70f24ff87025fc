// Package testutil holds test helpers shared across packages: a capturing
// slog handler and gestiones workbook fixtures.
package testutil
