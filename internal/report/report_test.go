package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Galuis-18/cobra-gestiones/internal/charts"
	"github.com/Galuis-18/cobra-gestiones/internal/dataprocessing"
	"github.com/Galuis-18/cobra-gestiones/internal/shared/testutil"
	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// recorder captures builder calls as "kind:text" entries.
type recorder struct {
	entries []string
}

func (r *recorder) Format() domain.ReportFormat { return domain.ReportFormatDOCX }
func (r *recorder) Title(text string)           { r.add("title", text) }
func (r *recorder) Heading(text string, level int) {
	r.add(fmt.Sprintf("h%d", level), text)
}
func (r *recorder) Paragraph(text string) { r.add("p", text) }
func (r *recorder) Line(text string)      { r.add("line", text) }
func (r *recorder) Image(png []byte, widthInches float64) error {
	r.add("img", fmt.Sprintf("%s@%.1f", png, widthInches))
	return nil
}
func (r *recorder) PageBreak() { r.add("break", "") }
func (r *recorder) Render(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(r.entries, "\n"))
	return err
}
func (r *recorder) add(kind, text string) { r.entries = append(r.entries, kind+":"+text) }

func (r *recorder) count(kind string) int {
	n := 0
	for _, e := range r.entries {
		if strings.HasPrefix(e, kind+":") {
			n++
		}
	}
	return n
}

func fakeCharts(withTrend bool) ChartRenderer {
	return func(a domain.AgentAnalysis) (*charts.Rendered, error) {
		out := &charts.Rendered{Histogram: []byte("hist-" + a.Summary.Agent)}
		if withTrend && a.HasTrend() {
			out.Trend = []byte("trend-" + a.Summary.Agent)
		}
		return out, nil
	}
}

func sampleAnalysis(agent string, trendDays int) domain.AgentAnalysis {
	mode := 10.0
	a := domain.AgentAnalysis{
		Summary: domain.AgentSummary{
			Agent:            agent,
			AmountTotal:      1234567.891,
			AmountDailyMean:  1500,
			ActionsDailyMean: 12.5,
			ActionsTotal:     37,
			Outliers:         2,
			ModeDelta:        &mode,
			MedianDelta:      1250.5,
			MeanDelta:        301.257,
		},
		Distribution: []float64{10, 20},
	}
	a.Trend = make([]domain.TrendPoint, trendDays)
	return a
}

func TestSummaryLines(t *testing.T) {
	lines := SummaryLines(sampleAnalysis("1001", 0).Summary)
	assert.Equal(t, []string{
		"Monto total acumulado: $1,234,567.89",
		"Monto promedio por día: $1,500.00",
		"Gestiones promedio por día: 12.50",
		"Total de gestiones en el periodo: 37",
		"Total de gestiones descartadas (arriba de 1 hora): 2",
		"Tiempo de moda: 10.00 segundos",
		"Mediana general de tiempo por usuario: 1,250.50",
		"Promedio general de tiempo por usuario: 301.26",
	}, lines)

	s := sampleAnalysis("1001", 0).Summary
	s.ModeDelta = nil
	assert.Equal(t, "Tiempo de moda: N/A", SummaryLines(s)[5])
}

func TestAssemble(t *testing.T) {
	asm := &Assembler{ImageWidth: 6.0, Charts: fakeCharts(true)}
	rec := &recorder{}

	err := asm.Assemble(rec, Content{
		Analyses:   []domain.AgentAnalysis{sampleAnalysis("1001", 3), sampleAnalysis("1002", 1)},
		AgentsSeen: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "title:Análisis por Cobrador", rec.entries[0])
	assert.Equal(t, len(preamble)+4, rec.count("p"))
	assert.Equal(t, 2, rec.count("h3"))
	assert.Equal(t, 4, rec.count("h4"))
	assert.Equal(t, 16, rec.count("line"))
	assert.Equal(t, 2, rec.count("break"))
	assert.Equal(t, 3, rec.count("img"))

	assert.Contains(t, rec.entries, "h3:Empleado: 1001")
	assert.Contains(t, rec.entries, "img:hist-1001@6.0")
	assert.Contains(t, rec.entries, "img:trend-1001@6.0")
	assert.Contains(t, rec.entries, "p:"+noTrendText)
	assert.NotContains(t, rec.entries, "img:trend-1002@6.0")
	assert.Equal(t, "break:", rec.entries[len(rec.entries)-1])
}

func TestAssembleNoAgents(t *testing.T) {
	tests := []struct {
		name string
		seen int
		want string
	}{
		{"all filtered", 0, noAgentsText},
		{"no gaps", 3, noGapsText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			asm := &Assembler{ImageWidth: 6.0, Charts: fakeCharts(true)}
			require.NoError(t, asm.Assemble(rec, Content{AgentsSeen: tt.seen}))

			assert.Len(t, rec.entries, 1+len(preamble)+1)
			assert.Equal(t, "p:"+tt.want, rec.entries[len(rec.entries)-1])
			assert.Zero(t, rec.count("h3"))
		})
	}
}

func TestAssembleChartError(t *testing.T) {
	asm := &Assembler{ImageWidth: 6.0, Charts: func(domain.AgentAnalysis) (*charts.Rendered, error) {
		return nil, errors.New("boom")
	}}
	err := asm.Assemble(&recorder{}, Content{Analyses: []domain.AgentAnalysis{sampleAnalysis("1001", 0)}, AgentsSeen: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent 1001")
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDocxBuilder(t *testing.T) {
	b := NewDocxBuilder()
	assert.Equal(t, domain.ReportFormatDOCX, b.Format())

	b.Title("Análisis por Cobrador")
	b.Heading("Empleado: 1001", 3)
	b.Line("Total de gestiones en el periodo: 2")
	require.NoError(t, b.Image(pngBytes(t, 80, 40), 6.0))
	b.PageBreak()

	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf))

	doc, err := document.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var texts []string
	for _, p := range doc.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		if sb.Len() > 0 {
			texts = append(texts, sb.String())
		}
	}
	assert.Contains(t, texts, "Análisis por Cobrador")
	assert.Contains(t, texts, "Empleado: 1001")
	assert.Contains(t, strings.Join(texts, "\n"), "Total de gestiones en el periodo: 2")
	require.Len(t, doc.Images, 1)
	assert.Equal(t, "png", doc.Images[0].Format())
	assert.Equal(t, 80, doc.Images[0].Size().X)
	breaks, drawings := countRunContent(doc)
	assert.Equal(t, 1, breaks)
	assert.Equal(t, 1, drawings)
}

// countRunContent returns the page breaks and drawings found in doc's runs.
func countRunContent(doc *document.Document) (breaks, drawings int) {
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			for _, ic := range r.X().EG_RunInnerContent {
				if ic.Br != nil && ic.Br.TypeAttr == wml.ST_BrTypePage {
					breaks++
				}
				if ic.Drawing != nil {
					drawings++
				}
			}
		}
	}
	return breaks, drawings
}

func TestDocxBuilderRemovesStagedCharts(t *testing.T) {
	b := NewDocxBuilder().(*DocxBuilder)
	require.NoError(t, b.Image(pngBytes(t, 20, 10), 6.0))
	scratch := b.scratch
	require.DirExists(t, scratch)

	require.NoError(t, b.Render(io.Discard))
	assert.NoDirExists(t, scratch)
	assert.NoError(t, b.Close())
}

func TestDocxBuilderRejectsBadImage(t *testing.T) {
	b := NewDocxBuilder().(*DocxBuilder)
	assert.Error(t, b.Image([]byte("not a png"), 6.0))
	assert.NoError(t, b.Close())
}

func TestHTMLBuilder(t *testing.T) {
	b := NewHTMLBuilder()
	assert.Equal(t, domain.ReportFormatHTML, b.Format())

	b.Title("Análisis por Cobrador")
	b.Heading("Empleado: <1001>", 3)
	b.Paragraph(trendText)
	b.Line("Tiempo de moda: N/A")
	require.NoError(t, b.Image(pngBytes(t, 8, 4), 6.0))
	b.PageBreak()

	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "<title>Análisis por Cobrador</title>")
	assert.Contains(t, out, "<h3>Empleado: &lt;1001&gt;</h3>")
	assert.Contains(t, out, `<p class="line">Tiempo de moda: N/A</p>`)
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.Contains(t, out, "width: 6.00in")
	assert.Contains(t, out, `class="page-break"`)

	assert.Error(t, b.Image(nil, 6.0))
}

func TestGeneratorGenerate(t *testing.T) {
	payload := testutil.BuildWorkbook(t,
		[]interface{}{"Gestiones desde APP"},
		[]interface{}{"Fecha", "No. de Cobrador", "No. de Contrato", "Monto"},
		[]interface{}{"2025-1001_07:44:51_O005587", "1001", "C-1", 100},
		[]interface{}{"2025-1001_07:49:51_O005588", "1001", "C-2", 50},
		[]interface{}{"2025-1001_07:50:00_O005589", "prueba", "C-3", 50},
	)

	gen := NewGenerator(&Assembler{ImageWidth: 6.0, Charts: fakeCharts(true)}, nil)
	rec := &recorder{}
	out, err := gen.Generate(context.Background(), payload, rec)
	require.NoError(t, err)

	require.Len(t, out.Analyses, 1)
	assert.Equal(t, 300.0, out.Analyses[0].Summary.MedianDelta)
	assert.Equal(t, 1, out.Sheet.TestRows)
	assert.Equal(t, domain.ReportFormatDOCX, out.Format)
	assert.Contains(t, string(out.Data), "line:Monto total acumulado: $150.00")
	assert.Contains(t, string(out.Data), "p:"+noTrendText)
}

func TestGeneratorErrors(t *testing.T) {
	gen := NewGenerator(&Assembler{ImageWidth: 6.0, Charts: fakeCharts(true)}, nil)

	_, err := gen.Generate(context.Background(), []byte("garbage"), &recorder{})
	assert.True(t, dataprocessing.IsIngest(err))

	missing := testutil.BuildWorkbook(t, []interface{}{"Fecha", "No. de Cobrador", "Monto"})
	_, err = gen.Generate(context.Background(), missing, &recorder{})
	assert.True(t, dataprocessing.IsValidation(err))
	assert.Contains(t, err.Error(), "No. de Contrato")
}

func TestGeneratorRealCharts(t *testing.T) {
	payload := testutil.BuildWorkbook(t,
		[]interface{}{"Fecha", "No. de Cobrador", "No. de Contrato", "Monto"},
		[]interface{}{"2025-1001_07:44:51_O1", "1001", "C-1", 100},
		[]interface{}{"2025-1001_07:49:51_O2", "1001", "C-2", 50},
		[]interface{}{"2025-1002_08:00:00_O3", "1001", "C-3", 75},
		[]interface{}{"2025-1002_08:02:00_O4", "1001", "C-4", 75},
	)

	gen := NewGenerator(nil, nil)
	out, err := gen.Generate(context.Background(), payload, NewDocxBuilder())
	require.NoError(t, err)

	doc, err := document.Read(bytes.NewReader(out.Data), int64(len(out.Data)))
	require.NoError(t, err)
	assert.Len(t, doc.Images, 2)
	breaks, drawings := countRunContent(doc)
	assert.Equal(t, 1, breaks)
	assert.Equal(t, 2, drawings)
}
