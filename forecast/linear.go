package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"demandcast/models"
)

// LinearRegression fits ordinary least squares of value against day index
// and extrapolates the line. Confidence is the clamped R-squared, so a flat
// or noisy series with no linear structure reports low confidence.
type LinearRegression struct{}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (f *LinearRegression) Name() string {
	return "linear_regression"
}

func (f *LinearRegression) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	n := len(series)
	if n < 2 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 2, Got: n}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, series, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return models.AlgorithmForecast{}, &NumericInstabilityError{Algorithm: f.Name(), Reason: "degenerate least-squares fit"}
	}

	r2 := stat.RSquared(xs, series, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant series: the regression explains nothing.
		r2 = 0
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = clampDemand(alpha + beta*float64(n+i))
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    clampConfidence(r2),
		Metadata:      map[string]interface{}{"intercept": alpha, "slope": beta, "r_squared": r2},
	}, nil
}
