package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsembleWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, Weights(), 7)
}

func TestEnsembleStableSeries(t *testing.T) {
	// 14 identical daily values of 10 units.
	series := flatSeries(14, 10)

	fc, err := NewCombiner(42).Combine(series, synthesizeDates(14), 7)
	require.NoError(t, err)

	require.Len(t, fc.Forecast, 7)
	for i, v := range fc.Forecast {
		assert.InDeltaf(t, 10.0, v, 1.0, "day %d should stay near 10", i)
	}
	assert.InDelta(t, 10.0, fc.AverageDailyDemand, 1.0)
	assert.InDelta(t, 70.0, fc.TotalDemand, 7.0)
	assert.Zero(t, fc.Trend)
	assert.Zero(t, fc.Volatility)
}

func TestEnsembleEmptySeries(t *testing.T) {
	fc, err := NewCombiner(42).Combine(nil, nil, 10)
	require.NoError(t, err)

	assert.Len(t, fc.Forecast, 10)
	for _, v := range fc.Forecast {
		assert.Zero(t, v)
	}
	assert.Equal(t, 0.1, fc.Confidence)
	assert.Zero(t, fc.TotalDemand)
}

func TestEnsembleShortSeriesFallsBackToFlatMean(t *testing.T) {
	fc, err := NewCombiner(42).Combine([]float64{4, 4, 4, 4, 4}, nil, 7)
	require.NoError(t, err)

	assert.Len(t, fc.Forecast, 7)
	for _, v := range fc.Forecast {
		assert.InDelta(t, 4.0, v, 1e-9)
	}
	assert.LessOrEqual(t, fc.Confidence, 0.3)
}

func TestEnsembleInvariantsLongSeries(t *testing.T) {
	// Noisy-but-deterministic series with weekly structure.
	series := make([]float64, 45)
	for i := range series {
		series[i] = 20 + 5*math.Sin(2*math.Pi*float64(i)/7) + float64(i%3)
	}

	fc, err := NewCombiner(42).Combine(series, synthesizeDates(45), 14)
	require.NoError(t, err)

	assert.Len(t, fc.Forecast, 14)
	for i, v := range fc.Forecast {
		assert.GreaterOrEqualf(t, v, 0.0, "forecast[%d]", i)
	}
	assert.GreaterOrEqual(t, fc.Confidence, 0.1)
	assert.LessOrEqual(t, fc.Confidence, 0.95)
	assert.Len(t, fc.PerAlgorithm, 7)
	assert.True(t, fc.Seasonality.Detected, "weekly cycle should be detected")
	assert.Greater(t, fc.Seasonality.Weekly, 0.3)
}

func TestEnsembleIsIdempotent(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 12 + float64(i%5)
	}
	dates := synthesizeDates(40)

	combiner := NewCombiner(42)
	a, err := combiner.Combine(series, dates, 10)
	require.NoError(t, err)
	b, err := combiner.Combine(series, dates, 10)
	require.NoError(t, err)

	assert.Equal(t, a.Forecast, b.Forecast)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.TotalDemand, b.TotalDemand)
	assert.Equal(t, a.PerAlgorithm["random_forest"].Forecast, b.PerAlgorithm["random_forest"].Forecast)
}

func TestEnsembleSurvivesAlgorithmFailures(t *testing.T) {
	// 16 points: enough for the combiner but below the ARIMA, prophet and
	// decomposition thresholds, which must fall back rather than fail.
	series := flatSeries(16, 9)

	fc, err := NewCombiner(42).Combine(series, synthesizeDates(16), 7)
	require.NoError(t, err)

	require.Len(t, fc.PerAlgorithm, 7)
	arima := fc.PerAlgorithm["arima"]
	assert.Equal(t, true, arima.Metadata["fallback"])
	assert.Equal(t, 0.3, arima.Confidence)
	for _, v := range fc.Forecast {
		assert.InDelta(t, 9.0, v, 1e-6)
	}
}

func TestValidatorHoldout(t *testing.T) {
	assert.Equal(t, 0, holdoutSize(4))
	assert.Equal(t, 2, holdoutSize(14))
	assert.Equal(t, 7, holdoutSize(90))
}

func TestValidatorScoresPerfectForecast(t *testing.T) {
	series := flatSeries(30, 10)

	fc, err := NewCombiner(1).Combine(series, synthesizeDates(30), 7)
	require.NoError(t, err)

	// A flat history forecast perfectly: ensemble accuracy should be high.
	assert.Greater(t, fc.ModelMetrics.EnsembleAccuracy, 0.5)
	assert.Less(t, fc.ModelMetrics.MAPE, 20.0)
}
