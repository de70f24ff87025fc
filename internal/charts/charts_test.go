package charts

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

func trendPoints(days int) []domain.TrendPoint {
	pts := make([]domain.TrendPoint, days)
	for i := range pts {
		pts[i] = domain.TrendPoint{
			Date:   time.Date(2025, 10, i+1, 0, 0, 0, 0, time.UTC),
			Median: float64(60 + i*5),
			Mode:   float64(30 + i),
		}
	}
	return pts
}

func TestHistogram(t *testing.T) {
	p, err := Histogram("1001", []float64{10, 12, 30, 45, 45, 300})
	require.NoError(t, err)
	assert.Equal(t, "Distribución de Tiempos - 1001", p.Title.Text)
	assert.Equal(t, "Frecuencia", p.Y.Label.Text)

	img, err := EncodePNG(p, HistogramWidth, HistogramHeight)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)
}

func TestHistogramConstantValues(t *testing.T) {
	p, err := Histogram("1001", []float64{300})
	require.NoError(t, err)
	_, err = EncodePNG(p, HistogramWidth, HistogramHeight)
	assert.NoError(t, err)
}

func TestHistogramEmpty(t *testing.T) {
	_, err := Histogram("1001", nil)
	assert.Error(t, err)
}

func TestDensityCurveScale(t *testing.T) {
	values := []float64{10, 20, 20, 30, 40}
	curve := densityCurve(values, 1)
	require.Len(t, curve, kdePoints)
	assert.Equal(t, 10.0, curve[0].X)
	assert.InDelta(t, 40.0, curve[len(curve)-1].X, 1e-9)
	for _, xy := range curve {
		assert.GreaterOrEqual(t, xy.Y, 0.0)
	}

	assert.Nil(t, densityCurve([]float64{5, 5, 5}, 1))
}

func TestTrend(t *testing.T) {
	p, err := Trend("1001", trendPoints(3))
	require.NoError(t, err)
	assert.Equal(t, "Evolución de Tiempos Diarios - 1001", p.Title.Text)

	_, err = EncodePNG(p, TrendWidth, TrendHeight)
	assert.NoError(t, err)

	_, err = Trend("1001", trendPoints(1))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	a := domain.AgentAnalysis{
		Summary:      domain.AgentSummary{Agent: "1001"},
		Distribution: []float64{10, 20, 30},
		Trend:        trendPoints(1),
	}

	out, err := Render(a)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Histogram)
	assert.Nil(t, out.Trend)

	a.Trend = trendPoints(4)
	out, err = Render(a)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Trend)
}
