package dataprocessing

import (
	"gonum.org/v1/gonum/floats"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Analyze aggregates timed records into one analysis per qualifying agent.
// Records must be sorted by (agent, instant) as returned by ComputeDeltas.
// Agents without a single gap are skipped. Output is in ascending agent order.
func Analyze(rows []domain.TimedRecord) []domain.AgentAnalysis {
	var analyses []domain.AgentAnalysis
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].Agent == rows[start].Agent {
			end++
		}
		if a, ok := analyzeAgent(rows[start:end]); ok {
			analyses = append(analyses, a)
		}
		start = end
	}
	return analyses
}

func analyzeAgent(rows []domain.TimedRecord) (domain.AgentAnalysis, bool) {
	var deltas []float64
	for _, r := range rows {
		if r.HasDelta {
			deltas = append(deltas, r.Delta)
		}
	}
	if len(deltas) == 0 {
		return domain.AgentAnalysis{}, false
	}

	daily := DailyStats(rows)
	dayAmounts := make([]float64, len(daily))
	dayActions := make([]float64, len(daily))
	for i, d := range daily {
		dayAmounts[i] = d.Amount
		dayActions[i] = float64(d.Actions)
	}

	summary := domain.AgentSummary{
		Agent:            rows[0].Agent,
		AmountTotal:      floats.Sum(dayAmounts),
		AmountDailyMean:  Mean(dayAmounts),
		ActionsDailyMean: Mean(dayActions),
		ActionsTotal:     len(rows),
		Outliers:         countOutliers(deltas),
		DeltaCount:       len(deltas),
		MedianDelta:      Median(deltas),
		MeanDelta:        Mean(deltas),
	}
	if m, ok := Mode(deltas); ok {
		summary.ModeDelta = &m
	}

	return domain.AgentAnalysis{
		Summary:      summary,
		Deltas:       deltas,
		Daily:        daily,
		Distribution: DistributionSeries(deltas),
		Trend:        TrendSeries(daily),
	}, true
}

// DailyStats groups one agent's rows by calendar day. Rows must be sorted by
// instant so days come out ascending.
func DailyStats(rows []domain.TimedRecord) []domain.DailyStat {
	var out []domain.DailyStat
	for start := 0; start < len(rows); {
		end := start
		var gaps []float64
		day := domain.DailyStat{Date: rows[start].Date}
		for end < len(rows) && rows[end].Date.Equal(day.Date) {
			r := rows[end]
			day.Actions++
			if r.HasAmount {
				day.Amount += r.Amount
			}
			if r.HasDelta {
				gaps = append(gaps, r.Delta)
			}
			end++
		}
		if len(gaps) > 0 {
			median := Median(gaps)
			mode, _ := Mode(gaps)
			day.Median = &median
			day.Mode = &mode
		}
		out = append(out, day)
		start = end
	}
	return out
}

func countOutliers(deltas []float64) int {
	n := 0
	for _, d := range deltas {
		if d >= domain.OutlierCutoffSeconds {
			n++
		}
	}
	return n
}
