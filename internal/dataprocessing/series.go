package dataprocessing

import (
	"sort"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// DistributionSeries returns the gaps below the outlier cutoff. When every gap
// is an outlier the full series is returned instead, so the histogram is
// never empty for a qualifying agent.
func DistributionSeries(deltas []float64) []float64 {
	var kept []float64
	for _, d := range deltas {
		if d < domain.OutlierCutoffSeconds {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return append([]float64(nil), deltas...)
	}
	return kept
}

// TrendSeries keeps the days with both a median and a mode, ascending by date.
func TrendSeries(daily []domain.DailyStat) []domain.TrendPoint {
	var points []domain.TrendPoint
	for _, d := range daily {
		if d.Median == nil || d.Mode == nil {
			continue
		}
		points = append(points, domain.TrendPoint{Date: d.Date, Median: *d.Median, Mode: *d.Mode})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
