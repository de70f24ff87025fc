package domain

import (
	"time"
)

// Canonical column names. The source workbook uses the Spanish titles below;
// agent and contract columns are renamed to the canonical names after
// validation.
const (
	ColumnTimestamp = "Fecha"
	ColumnAgent     = "No. de Cobrador"
	ColumnContract  = "No. de Contrato"
	ColumnAmount    = "Monto"

	CanonicalAgent    = "empleado"
	CanonicalContract = "contrato"

	// HeaderSentinel is the title exported above the real header row by the
	// collection app.
	HeaderSentinel = "Gestiones desde APP"
)

// RequiredColumns lists the source columns every workbook must carry, in the
// order they are reported when missing.
var RequiredColumns = []string{ColumnTimestamp, ColumnAgent, ColumnContract, ColumnAmount}

// Record is one logged management action after normalization.
type Record struct {
	Agent     string  `json:"empleado" validate:"required"`
	Contract  string  `json:"contrato"`
	Token     string  `json:"fecha"`
	Day       string  `json:"dia"`  // "2025-10-01", sliced from Token
	Time      string  `json:"time"` // "07:44:51", sliced from Token
	Amount    float64 `json:"monto"`
	HasAmount bool    `json:"-"`   // false when the amount cell was empty
	Row       int     `json:"row"` // 1-based spreadsheet row, for diagnostics
}

// TimedRecord is a Record with its parsed instant and the gap in seconds to
// the previous action of the same agent on the same day.
type TimedRecord struct {
	Record
	Instant  time.Time `json:"instant"`
	Date     time.Time `json:"date"`
	Delta    float64   `json:"delta_seconds"`
	HasDelta bool      `json:"has_delta"` // false for the first action of each (agent, day)
}

// DailyStat holds the central tendency of one agent's gaps on one day.
// Median and Mode are nil when the day has no gaps.
type DailyStat struct {
	Date    time.Time `json:"date"`
	Actions int       `json:"actions"`
	Amount  float64   `json:"amount"`
	Median  *float64  `json:"median,omitempty"`
	Mode    *float64  `json:"mode,omitempty"`
}

// TrendPoint is one day of the median/mode trend series.
type TrendPoint struct {
	Date   time.Time `json:"date"`
	Median float64   `json:"median"`
	Mode   float64   `json:"mode"`
}
