package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatSeries(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

func rampSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i + 1)
	}
	return s
}

func TestExponentialSmoothingFlatSeries(t *testing.T) {
	result, err := NewExponentialSmoothing().Forecast(flatSeries(30, 5), nil, 7)
	assert.NoError(t, err)
	assert.Len(t, result.Forecast, 7)
	for _, v := range result.Forecast {
		assert.InDelta(t, 5.0, v, 1e-9)
	}
	// A flat series is perfectly predictable for a smoother.
	assert.GreaterOrEqual(t, result.Confidence, 0.9)
}

func TestLinearRegressionFlatSeriesHasLowConfidence(t *testing.T) {
	result, err := NewLinearRegression().Forecast(flatSeries(30, 5), nil, 7)
	assert.NoError(t, err)
	// R-squared of a constant series explains nothing.
	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
	for _, v := range result.Forecast {
		assert.InDelta(t, 5.0, v, 1e-6)
	}
}

func TestLinearRegressionTrendingSeries(t *testing.T) {
	result, err := NewLinearRegression().Forecast(rampSeries(30), nil, 5)
	assert.NoError(t, err)
	// Perfect line: R-squared clamps at the ceiling, forecast continues it.
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.InDelta(t, 31.0, result.Forecast[0], 1e-6)
	assert.InDelta(t, 35.0, result.Forecast[4], 1e-6)
}

func TestDoubleExponentialSmoothingTrendingSeries(t *testing.T) {
	result, err := NewDoubleExponentialSmoothing().Forecast(rampSeries(30), nil, 3)
	assert.NoError(t, err)
	assert.Greater(t, result.Forecast[0], 29.0)
	assert.Greater(t, result.Forecast[2], result.Forecast[0], "trend should carry forward")
}

func TestForecastsAreNeverNegative(t *testing.T) {
	// Steep downward trend would extrapolate below zero.
	series := make([]float64, 30)
	for i := range series {
		series[i] = float64(30 - i)
	}

	forecasters := []Forecaster{
		NewExponentialSmoothing(),
		NewDoubleExponentialSmoothing(),
		NewHoltWinters(),
		NewLinearRegression(),
		NewSeasonalDecomposition(),
		NewRandomForest(1),
		NewARIMA(),
		NewProphetLike(),
	}
	for _, f := range forecasters {
		result, err := f.Forecast(series, nil, 30)
		if err != nil {
			continue
		}
		for i, v := range result.Forecast {
			assert.GreaterOrEqualf(t, v, 0.0, "%s forecast[%d]", f.Name(), i)
		}
	}
}

func TestMinimumDataThresholds(t *testing.T) {
	cases := []struct {
		forecaster Forecaster
		points     int
	}{
		{NewDoubleExponentialSmoothing(), 1},
		{NewHoltWinters(), 13},
		{NewSeasonalDecomposition(), 27},
		{NewRandomForest(1), 13},
		{NewARIMA(), 19},
		{NewProphetLike(), 20},
	}

	for _, tc := range cases {
		_, err := tc.forecaster.Forecast(flatSeries(tc.points, 5), nil, 7)
		var insufficient *InsufficientDataError
		assert.Truef(t, errors.As(err, &insufficient), "%s should reject %d points", tc.forecaster.Name(), tc.points)
	}
}

func TestHoltWintersDegradesWithoutSeasonality(t *testing.T) {
	// Flat series: no seasonal period is detectable.
	result, err := NewHoltWinters().Forecast(flatSeries(20, 8), nil, 7)
	assert.NoError(t, err)
	assert.Equal(t, "holt_winters", result.AlgorithmName)
	assert.Equal(t, "double_exponential_smoothing", result.Metadata["degraded_to"])
	for _, v := range result.Forecast {
		assert.InDelta(t, 8.0, v, 1e-6)
	}
}

func TestHoltWintersDetectsWeeklyCycle(t *testing.T) {
	// Four weeks with a pronounced weekend spike.
	series := make([]float64, 28)
	for i := range series {
		series[i] = 10
		if i%7 >= 5 {
			series[i] = 30
		}
	}

	result, err := NewHoltWinters().Forecast(series, nil, 7)
	assert.NoError(t, err)
	// A weekly cycle may also register at its harmonic.
	assert.Contains(t, []interface{}{7, 14}, result.Metadata["seasonal_period"])
	// The forecast week should echo the weekend spike.
	assert.Greater(t, result.Forecast[5], result.Forecast[2])
}

func TestSeasonalDecompositionWeeklyPattern(t *testing.T) {
	series := make([]float64, 35)
	for i := range series {
		series[i] = 10
		if i%7 == 6 {
			series[i] = 25
		}
	}

	result, err := NewSeasonalDecomposition().Forecast(series, nil, 14)
	assert.NoError(t, err)
	assert.Len(t, result.Forecast, 14)
	assert.Contains(t, []interface{}{7, 14}, result.Metadata["seasonal_period"])
	// Day 35+6 is the next spike phase.
	assert.Greater(t, result.Forecast[6], result.Forecast[3])
}

func TestRandomForestIsDeterministicPerSeed(t *testing.T) {
	series := []float64{5, 7, 6, 8, 9, 7, 6, 10, 11, 9, 8, 12, 10, 9, 11, 13, 12, 10, 14, 13}

	a, err := NewRandomForest(42).Forecast(series, nil, 7)
	assert.NoError(t, err)
	b, err := NewRandomForest(42).Forecast(series, nil, 7)
	assert.NoError(t, err)
	assert.Equal(t, a.Forecast, b.Forecast, "same seed must reproduce the forest")

	c, err := NewRandomForest(7).Forecast(series, nil, 7)
	assert.NoError(t, err)
	assert.Len(t, c.Forecast, 7)
}

func TestRandomForestFlatSeries(t *testing.T) {
	result, err := NewRandomForest(1).Forecast(flatSeries(21, 6), nil, 5)
	assert.NoError(t, err)
	for _, v := range result.Forecast {
		assert.InDelta(t, 6.0, v, 1e-9)
	}
}

func TestARIMAFlatSeries(t *testing.T) {
	result, err := NewARIMA().Forecast(flatSeries(30, 12), nil, 7)
	assert.NoError(t, err)
	assert.Len(t, result.Forecast, 7)
	for _, v := range result.Forecast {
		assert.InDelta(t, 12.0, v, 0.5)
	}
}

func TestProphetWeeklySeasonality(t *testing.T) {
	series := make([]float64, 28)
	dates := synthesizeDates(28)
	for i := range series {
		series[i] = 10
		if dates[i].Weekday() == 0 { // quiet Sundays
			series[i] = 2
		}
	}

	result, err := NewProphetLike().Forecast(series, dates, 7)
	assert.NoError(t, err)
	for i := 0; i < 7; i++ {
		day := dates[27].AddDate(0, 0, i+1)
		if day.Weekday() == 0 {
			assert.Lessf(t, result.Forecast[i], 8.0, "Sunday %d should stay quiet", i)
		}
	}
	// Uncertainty bands are carried in metadata.
	assert.Contains(t, result.Metadata, "lower_bound")
	assert.Contains(t, result.Metadata, "upper_bound")
}

func TestLCGDeterminism(t *testing.T) {
	a, b := NewLCG(42), NewLCG(42)
	for i := 0; i < 100; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("sequence diverged at step %d: %v != %v", i, av, bv)
		}
		if av < 0 || av >= 1 {
			t.Fatalf("value out of range: %v", av)
		}
	}
}

func TestConfidenceClamp(t *testing.T) {
	assert.Equal(t, 0.1, clampConfidence(-0.5))
	assert.Equal(t, 0.1, clampConfidence(math.NaN()))
	assert.Equal(t, 0.95, clampConfidence(1.2))
	assert.Equal(t, 0.5, clampConfidence(0.5))
}
