// Package dataprocessing turns an uploaded "gestiones" workbook into per-agent
// timing and monetary statistics.
//
// # Data Flow
//
//	workbook bytes → Normalize → []domain.Record
//	               → ComputeDeltas → []domain.TimedRecord (sorted by agent, instant)
//	               → Analyze → []domain.AgentAnalysis (ascending agent id)
//
// Normalize reads the first sheet, shifts past the "Gestiones desde APP" title
// row when present, checks the required columns, drops test agents and slices
// the composite timestamp token into a day and a time of day. ComputeDeltas
// parses those into instants and measures the gap to the previous action of
// the same agent on the same day. Analyze aggregates the gaps.
//
// # Error Handling
//
// Failures are reported as *PipelineError. Unreadable input is an ingest
// error; anything wrong with the content of a readable workbook is a
// validation error. Use IsIngest and IsValidation to tell them apart.
package dataprocessing
