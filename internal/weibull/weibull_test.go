package weibull

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wind_assess/internal/model"
)

// quantileSample draws n deterministic values from a Weibull(k, a) via the
// inverse CDF on an even probability grid.
func quantileSample(k, a float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		p := (float64(i) + 0.5) / float64(n)
		out[i] = a * math.Pow(-math.Log(1-p), 1/k)
	}
	return out
}

func seriesOf(speeds []float64) model.PointSeries {
	return model.PointSeries{Speed: speeds}
}

func TestFit_RecoversParameters(t *testing.T) {
	tests := []struct {
		name string
		k, a float64
	}{
		{"typical offshore", 2.0, 8.0},
		{"rayleigh-like", 2.0, 5.0},
		{"peaked", 3.5, 10.0},
		{"broad", 1.4, 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := Fit(seriesOf(quantileSample(tt.k, tt.a, 2000)))
			require.NoError(t, err)
			assert.InDelta(t, tt.k, fit.K, 0.1)
			assert.InDelta(t, tt.a, fit.A, 0.1)
		})
	}
}

func TestFit_PositiveParameters(t *testing.T) {
	fit, err := Fit(seriesOf([]float64{1, 2, 3, 4, 5}))
	require.NoError(t, err)
	assert.Greater(t, fit.K, 0.0)
	assert.Greater(t, fit.A, 0.0)
}

func TestFit_DropsNegativeAndNaN(t *testing.T) {
	speeds := quantileSample(2, 8, 500)
	speeds = append(speeds, -1, math.NaN(), -0.5)

	fit, err := Fit(seriesOf(speeds))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.K, 0.15)
}

func TestFit_ClipsZeros(t *testing.T) {
	speeds := quantileSample(2, 8, 500)
	speeds[0] = 0 // clipped to epsilon, must not blow up the log

	fit, err := Fit(seriesOf(speeds))
	require.NoError(t, err)
	assert.Greater(t, fit.K, 0.0)
}

func TestFit_InsufficientData(t *testing.T) {
	_, err := Fit(seriesOf(nil))
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = Fit(seriesOf([]float64{5}))
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	// Only invalid values left after filtering
	_, err = Fit(seriesOf([]float64{-1, math.NaN(), -3}))
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestFit_DegenerateDistribution(t *testing.T) {
	_, err := Fit(seriesOf([]float64{5, 5, 5, 5}))
	assert.ErrorIs(t, err, model.ErrDegenerateDistribution)

	_, err = Fit(seriesOf([]float64{0, 0, 0}))
	assert.ErrorIs(t, err, model.ErrDegenerateDistribution)
}

func TestDistribution(t *testing.T) {
	dist := Distribution(model.WeibullFit{K: 2, A: 8})

	// CDF at the scale parameter is 1 - 1/e for any shape
	assert.InDelta(t, 1-1/math.E, dist.CDF(8), 1e-12)
	assert.Equal(t, 0.0, dist.CDF(0))
	assert.InDelta(t, 1.0, dist.CDF(100), 1e-9)
}
