// Package charts draws the per-agent histogram and trend figures as PNG.
//
// Every function builds and returns its own *plot.Plot, so concurrent report
// generations never share drawing state.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Figure sizes.
var (
	HistogramWidth  = 8 * vg.Inch
	HistogramHeight = 4 * vg.Inch
	TrendWidth      = 9 * vg.Inch
	TrendHeight     = 4.5 * vg.Inch
)

const (
	histogramBins = 50
	kdePoints     = 200
)

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 160}
	kdeColor  = color.RGBA{R: 31, G: 78, B: 121, A: 255}
	gridColor = color.Gray{Y: 200}
)

// Histogram plots the gap distribution with a kernel density overlay.
func Histogram(agent string, values []float64) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("histogram for %s: no values", agent)
	}

	p := plot.New()
	p.Title.Text = "Distribución de Tiempos - " + agent
	p.X.Label.Text = "Segundos entre Gestiones (Filtrado a 1 hora)"
	p.Y.Label.Text = "Frecuencia"
	p.Add(newGrid())

	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("histogram for %s: %w", agent, err)
	}
	h.FillColor = barColor
	h.LineStyle.Color = color.White
	p.Add(h)

	if kde := densityCurve(values, h.Width); kde != nil {
		line, err := plotter.NewLine(kde)
		if err != nil {
			return nil, fmt.Errorf("density for %s: %w", agent, err)
		}
		line.Color = kdeColor
		line.Width = vg.Points(2)
		p.Add(line)
	}

	return p, nil
}

// densityCurve evaluates a Gaussian kernel density estimate over the data
// range, scaled to histogram counts. It returns nil for constant data.
func densityCurve(values []float64, binWidth float64) plotter.XYs {
	if len(values) < 2 {
		return nil
	}
	n := float64(len(values))
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	// Scott's rule
	bw := sd * math.Pow(n, -1.0/5)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}

	lo, hi := floats.Min(values), floats.Max(values)
	step := (hi - lo) / float64(kdePoints-1)
	scale := n * binWidth

	xys := make(plotter.XYs, kdePoints)
	for i := range xys {
		x := lo + float64(i)*step
		var density float64
		for _, v := range values {
			density += kernel.Prob(x - v)
		}
		xys[i].X = x
		xys[i].Y = density / n * scale
	}
	return xys
}

// Trend plots the daily median (dashed, circles) and mode (solid, crosses).
func Trend(agent string, points []domain.TrendPoint) (*plot.Plot, error) {
	if len(points) < domain.MinTrendPoints {
		return nil, fmt.Errorf("trend for %s: need at least %d days, got %d", agent, domain.MinTrendPoints, len(points))
	}

	p := plot.New()
	p.Title.Text = "Evolución de Tiempos Diarios - " + agent
	p.X.Label.Text = "Fecha"
	p.Y.Label.Text = "Segundos"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(newGrid())

	medians := make(plotter.XYs, len(points))
	modes := make(plotter.XYs, len(points))
	for i, pt := range points {
		x := float64(pt.Date.Unix())
		medians[i] = plotter.XY{X: x, Y: pt.Median}
		modes[i] = plotter.XY{X: x, Y: pt.Mode}
	}

	medianLine, medianDots, err := plotter.NewLinePoints(medians)
	if err != nil {
		return nil, fmt.Errorf("trend for %s: %w", agent, err)
	}
	medianLine.Color = plotutil.Color(0)
	medianLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	medianDots.Shape = draw.CircleGlyph{}
	medianDots.Color = plotutil.Color(0)

	modeLine, modeDots, err := plotter.NewLinePoints(modes)
	if err != nil {
		return nil, fmt.Errorf("trend for %s: %w", agent, err)
	}
	modeLine.Color = plotutil.Color(1)
	modeDots.Shape = draw.CrossGlyph{}
	modeDots.Color = plotutil.Color(1)

	p.Add(medianLine, medianDots, modeLine, modeDots)
	p.Legend.Add("Mediana Diaria", medianLine, medianDots)
	p.Legend.Add("Moda Diaria", modeLine, modeDots)

	return p, nil
}

func newGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = gridColor
	g.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	g.Horizontal.Color = gridColor
	g.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	return g
}

// EncodePNG renders p at the given size.
func EncodePNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Rendered holds the PNG images for one agent. Trend is nil when fewer than
// two days qualify.
type Rendered struct {
	Histogram []byte
	Trend     []byte
}

// Render draws both figures for an analysis.
func Render(a domain.AgentAnalysis) (*Rendered, error) {
	hist, err := Histogram(a.Summary.Agent, a.Distribution)
	if err != nil {
		return nil, err
	}
	out := &Rendered{}
	if out.Histogram, err = EncodePNG(hist, HistogramWidth, HistogramHeight); err != nil {
		return nil, err
	}

	if !a.HasTrend() {
		return out, nil
	}
	trend, err := Trend(a.Summary.Agent, a.Trend)
	if err != nil {
		return nil, err
	}
	if out.Trend, err = EncodePNG(trend, TrendWidth, TrendHeight); err != nil {
		return nil, err
	}
	return out, nil
}
