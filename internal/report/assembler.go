package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Galuis-18/cobra-gestiones/internal/charts"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

const (
	reportTitle = "Análisis por Cobrador"

	noAgentsText   = "No se encontraron empleados en el archivo después de filtrar la palabra 'prueba'."
	noGapsText     = "No se encontraron empleados con al menos dos gestiones el mismo día para calcular tiempos entre gestiones."
	noTrendText    = "No hay suficientes gestiones para poder analizar las tendencias en las gestiones."
	histogramTitle = "Distribución de tiempos entre gestiones"
	histogramText  = "Muestra la frecuencia de los tiempos entre gestiones. Un pico alto a la izquierda significa muchas gestiones rápidas."
	trendTitle     = "Evolución de Tiempos Diarios (Mediana y Moda)"
	trendText      = `Muestra cómo cambian los tiempos "típicos" (mediana) y "más frecuentes" (moda) cada día.`
)

var preamble = []string{
	"En este reporte se hace un análisis de las medidas de tendencia y algunas estadísticas de los tiempos de gestión por cobrador.",
	"Se recomienda altamente tomar como medida principal para el análisis la mediana. Esto ya que el promedio es una variable susceptible a los valores extremos.",
	"Si a lo largo de cada día hay una gestión que dure más de una hora, eso terminará afectando el promedio general a largo plazo.",
	"De la misma forma la moda puede estar fallando por múltiples gestiones cortas, es decir, si encuentra dos valores repetidos y las demás gestiones no duraron lo mismo, estos serán tomados como moda general.",
	"Reporte con estadísticas de ventas y análisis de tiempos por cobrador.",
}

// ChartRenderer draws the figures for one agent.
type ChartRenderer func(domain.AgentAnalysis) (*charts.Rendered, error)

// Assembler writes the narrative for a set of analyses into a Builder.
type Assembler struct {
	ImageWidth float64 // inches
	Charts     ChartRenderer
}

// NewAssembler returns an assembler drawing charts with gonum/plot.
func NewAssembler(imageWidth float64) *Assembler {
	if imageWidth <= 0 {
		imageWidth = 6.0
	}
	return &Assembler{ImageWidth: imageWidth, Charts: charts.Render}
}

// Content describes what the document should explain when no agent
// qualifies.
type Content struct {
	Analyses []domain.AgentAnalysis
	// AgentsSeen counts distinct agents left after filtering, with or
	// without gaps.
	AgentsSeen int
}

// Assemble writes the preamble followed by one section per analysis.
func (a *Assembler) Assemble(b Builder, c Content) error {
	b.Title(reportTitle)
	for _, p := range preamble {
		b.Paragraph(p)
	}

	if len(c.Analyses) == 0 {
		if c.AgentsSeen == 0 {
			b.Paragraph(noAgentsText)
		} else {
			b.Paragraph(noGapsText)
		}
		return nil
	}

	for _, analysis := range c.Analyses {
		if err := a.section(b, analysis); err != nil {
			return fmt.Errorf("agent %s: %w", analysis.Summary.Agent, err)
		}
	}
	return nil
}

func (a *Assembler) section(b Builder, analysis domain.AgentAnalysis) error {
	figures, err := a.Charts(analysis)
	if err != nil {
		return err
	}

	s := analysis.Summary
	b.Heading("Empleado: "+s.Agent, 3)
	for _, line := range SummaryLines(s) {
		b.Line(line)
	}

	b.Heading(histogramTitle, 4)
	b.Paragraph(histogramText)
	if err := b.Image(figures.Histogram, a.ImageWidth); err != nil {
		return err
	}

	b.Heading(trendTitle, 4)
	if figures.Trend != nil {
		b.Paragraph(trendText)
		if err := b.Image(figures.Trend, a.ImageWidth); err != nil {
			return err
		}
	} else {
		b.Paragraph(noTrendText)
	}

	b.PageBreak()
	return nil
}

// SummaryLines returns the statistic lines printed under each agent heading.
func SummaryLines(s domain.AgentSummary) []string {
	mode := "N/A"
	if s.ModeDelta != nil {
		mode = fmt.Sprintf("%.2f segundos", *s.ModeDelta)
	}
	return []string{
		"Monto total acumulado: $" + Money(s.AmountTotal),
		"Monto promedio por día: $" + Money(s.AmountDailyMean),
		fmt.Sprintf("Gestiones promedio por día: %.2f", s.ActionsDailyMean),
		fmt.Sprintf("Total de gestiones en el periodo: %d", s.ActionsTotal),
		fmt.Sprintf("Total de gestiones descartadas (arriba de 1 hora): %d", s.Outliers),
		"Tiempo de moda: " + mode,
		"Mediana general de tiempo por usuario: " + Money(s.MedianDelta),
		"Promedio general de tiempo por usuario: " + Money(s.MeanDelta),
	}
}

// Money formats with thousands separators and two decimals.
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
