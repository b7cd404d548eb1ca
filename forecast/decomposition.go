package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"demandcast/models"
)

// SeasonalDecomposition splits the series into trend, seasonal and residual
// components: trend via centered moving average with the seasonal period as
// window, seasonal as the per-phase mean of the detrended values, residual
// as what remains. The forecast extrapolates the trend linearly and repeats
// the seasonal phase.
type SeasonalDecomposition struct{}

func NewSeasonalDecomposition() *SeasonalDecomposition {
	return &SeasonalDecomposition{}
}

func (f *SeasonalDecomposition) Name() string {
	return "seasonal_decomposition"
}

func (f *SeasonalDecomposition) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	n := len(series)
	if n < 28 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 28, Got: n}
	}

	period := detectSeasonalPeriod(series)
	if period < 2 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 2, Got: period}
	}

	trend := centeredMovingAverage(series, period)

	// Seasonal component: mean detrended value per phase.
	seasonal := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		seasonal[i%period] += series[i] - trend[i]
		counts[i%period]++
	}
	for i := range seasonal {
		if counts[i] > 0 {
			seasonal[i] /= float64(counts[i])
		}
	}

	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		residual[i] = series[i] - trend[i] - seasonal[i%period]
	}

	// Extrapolate the trend with a straight line over its index.
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, trend, nil, false)

	forecast := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		forecast[i] = clampDemand(intercept + slope*float64(n+i) + seasonal[(n+i)%period])
	}

	// Confidence from how much variance the decomposition explains.
	seriesVar := popVariance(series)
	confidence := minConfidence
	if seriesVar > 0 {
		confidence = clampConfidence(1 - popVariance(residual)/seriesVar)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    confidence,
		Metadata: map[string]interface{}{
			"seasonal_period": period,
			"trend_slope":     slope,
		},
	}, nil
}

// centeredMovingAverage smooths the series with a window centered on each
// point, shrinking the window at the edges.
func centeredMovingAverage(series []float64, window int) []float64 {
	n := len(series)
	out := make([]float64, n)
	half := window / 2
	for i := 0; i < n; i++ {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > n {
			end = n
		}
		out[i] = mean(series[start:end])
	}
	return out
}
