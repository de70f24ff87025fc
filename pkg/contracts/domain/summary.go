package domain

// AgentSummary carries the per-agent statistics printed in the report.
type AgentSummary struct {
	Agent            string   `json:"agent"`
	AmountTotal      float64  `json:"amount_total"`
	AmountDailyMean  float64  `json:"amount_daily_mean"`
	ActionsDailyMean float64  `json:"actions_daily_mean"`
	ActionsTotal     int      `json:"actions_total"`
	Outliers         int      `json:"outliers"`
	DeltaCount       int      `json:"delta_count"`
	ModeDelta        *float64 `json:"mode_delta,omitempty"`
	MedianDelta      float64  `json:"median_delta"`
	MeanDelta        float64  `json:"mean_delta"`
}

// AgentAnalysis bundles everything the report needs for one qualifying agent.
type AgentAnalysis struct {
	Summary      AgentSummary `json:"summary"`
	Deltas       []float64    `json:"deltas"`
	Daily        []DailyStat  `json:"daily"`
	Distribution []float64    `json:"distribution"`
	Trend        []TrendPoint `json:"trend"`
}

// HasTrend reports whether enough days qualify to draw a trend line.
func (a AgentAnalysis) HasTrend() bool {
	return len(a.Trend) >= MinTrendPoints
}

// OutlierCutoffSeconds separates normal gaps from outliers. Gaps at or above
// the cutoff are outliers.
const OutlierCutoffSeconds = 3600.0

// MinTrendPoints is the fewest days a trend chart is drawn for.
const MinTrendPoints = 2
