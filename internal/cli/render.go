// Package cli renders per-agent statistics for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table. The first column is left aligned,
// the rest right aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], false) + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(cellStyle(cell).Render(" " + pad(cell, widths[i], i > 0) + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

// pad pads by display width so accented agent names stay aligned.
func pad(s string, width int, right bool) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func cellStyle(cell string) lipgloss.Style {
	switch {
	case cell == NotAvailable:
		return mutedStyle
	case strings.HasPrefix(cell, "$"):
		return moneyStyle
	default:
		return valueStyle
	}
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// SummaryTable lays out one row per agent.
func SummaryTable(analyses []domain.AgentAnalysis) Table {
	t := Table{
		Title: "Resumen por cobrador",
		Headers: []string{
			"Cobrador", "Gestiones", "Monto total", "Monto/día",
			"Gestiones/día", "Atípicos", "Moda (s)", "Mediana (s)", "Media (s)", "Actividad",
		},
	}
	for _, a := range analyses {
		s := a.Summary
		actions := make([]float64, len(a.Daily))
		for i, d := range a.Daily {
			actions[i] = float64(d.Actions)
		}
		t.Rows = append(t.Rows, []string{
			s.Agent,
			FormatCount(s.ActionsTotal),
			FormatMoney(s.AmountTotal),
			FormatMoney(s.AmountDailyMean),
			FormatDecimal(s.ActionsDailyMean),
			FormatCount(s.Outliers),
			FormatOptionalSeconds(s.ModeDelta),
			FormatDecimal(s.MedianDelta),
			FormatDecimal(s.MeanDelta),
			RenderSparkline(actions),
		})
	}
	return t
}

// RenderSummary renders the title, the agent table and a footer line.
func RenderSummary(analyses []domain.AgentAnalysis, source, output string) string {
	var b strings.Builder
	b.WriteString(RenderTitle("Análisis por Cobrador"))
	b.WriteString("\n")

	if len(analyses) == 0 {
		b.WriteString(warnStyle.Render("  Ningún cobrador tiene intervalos entre gestiones."))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderTable(SummaryTable(analyses)))
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s → %s", source, output)))
	b.WriteString("\n")
	return b.String()
}
