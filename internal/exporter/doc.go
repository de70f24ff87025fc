// Package exporter writes agent statistics as CSV.
//
// CSVWriter is the core writer with optional UTF-8 BOM for Excel. On top of
// it, WriteSummaryCSV emits one row per agent and WriteDailyCSV one row per
// agent and day.
//
// Example usage:
//
//	err := exporter.WriteSummaryCSV(w, analyses, exporter.WriteOptions{BOMPrefix: true})
package exporter
