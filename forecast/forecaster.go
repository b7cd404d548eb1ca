package forecast

import (
	"math"
	"time"

	"demandcast/models"
)

// Forecaster is the contract every algorithm implements. Implementations are
// stateless and pure: the same series, dates and horizon always produce the
// same forecast. Forecast values are clamped to >= 0 (demand cannot be
// negative) and confidence lands in [0.1, 0.95].
//
// On a series that is too short the algorithm returns InsufficientDataError;
// on a failed fit it returns NumericInstabilityError. The ensemble catches
// both and substitutes a flat-mean fallback, so neither error escapes the
// combiner.
type Forecaster interface {
	Name() string
	Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error)
}

// Confidence bounds. Never report certainty, never report hopelessness.
const (
	minConfidence = 0.1
	maxConfidence = 0.95
)

// fallbackConfidence is reported when an algorithm failed and a flat-mean
// forecast stands in for it.
const fallbackConfidence = 0.3

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func clampDemand(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// flatMeanForecast predicts the historical mean for every future day. Used
// directly for very short series and as the substitute when an algorithm
// fails inside the ensemble.
func flatMeanForecast(name string, series []float64, horizon int) models.AlgorithmForecast {
	avg := clampDemand(mean(series))
	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = avg
	}
	return models.AlgorithmForecast{
		AlgorithmName: name,
		Forecast:      forecast,
		Confidence:    fallbackConfidence,
		Metadata:      map[string]interface{}{"fallback": true},
	}
}

// accuracyConfidence converts an in-sample MAE into a confidence score:
// 1 - MAE/mean, clamped. A flat series fits perfectly and scores high; a
// noisy one scores toward the floor.
func accuracyConfidence(series, fitted []float64) float64 {
	avg := mean(series)
	if avg == 0 {
		return minConfidence
	}
	return clampConfidence(1 - meanAbsoluteError(series, fitted)/avg)
}
