package exporter

import (
	"io"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

var summaryHeaders = []string{
	"empleado",
	"monto_total",
	"monto_promedio_dia",
	"gestiones_promedio_dia",
	"gestiones_total",
	"gestiones_descartadas",
	"moda_segundos",
	"mediana_segundos",
	"promedio_segundos",
}

var dailyHeaders = []string{
	"empleado",
	"fecha",
	"gestiones",
	"monto",
	"mediana_segundos",
	"moda_segundos",
}

// WriteSummaryCSV writes one row per agent, in the order given.
func WriteSummaryCSV(w io.Writer, analyses []domain.AgentAnalysis, options WriteOptions) error {
	records := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		s := a.Summary
		records = append(records, []string{
			s.Agent,
			formatFloat(s.AmountTotal),
			formatFloat(s.AmountDailyMean),
			formatFloat(s.ActionsDailyMean),
			formatInt(s.ActionsTotal),
			formatInt(s.Outliers),
			formatOptional(s.ModeDelta),
			formatFloat(s.MedianDelta),
			formatFloat(s.MeanDelta),
		})
	}
	return WriteCSV(w, summaryHeaders, records, options)
}

// WriteDailyCSV writes one row per agent and day. Days without gaps leave the
// median and mode cells empty.
func WriteDailyCSV(w io.Writer, analyses []domain.AgentAnalysis, options WriteOptions) error {
	cw, err := NewCSVWriter(w, dailyHeaders, options)
	if err != nil {
		return err
	}
	for _, a := range analyses {
		for _, d := range a.Daily {
			err := cw.WriteRecord([]string{
				a.Summary.Agent,
				d.Date.Format("2006-01-02"),
				formatInt(d.Actions),
				formatFloat(d.Amount),
				formatOptional(d.Median),
				formatOptional(d.Mode),
			})
			if err != nil {
				return err
			}
		}
	}
	return cw.Close()
}
