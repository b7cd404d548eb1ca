package forecast

import (
	"demandcast/models"
)

// Validator back-tests forecasts against held-out recent history. The
// holdout is the last min(7, 20% of N) points; each algorithm's first
// that-many forecast values are compared against them. The resulting
// accuracy is a sanity diagnostic only, it does not feed back into the
// ensemble weights.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// holdoutSize returns min(7, 20% of the series length).
func holdoutSize(n int) int {
	h := n / 5
	if h > 7 {
		h = 7
	}
	return h
}

// Validate scores every algorithm against the holdout and returns the
// ensemble accuracy (unweighted mean of per-algorithm accuracies) plus the
// per-algorithm breakdown.
func (v *Validator) Validate(perAlgorithm map[string]models.AlgorithmForecast, series []float64) (float64, map[string]models.AlgorithmPerformance) {
	h := holdoutSize(len(series))
	performance := make(map[string]models.AlgorithmPerformance, len(perAlgorithm))
	if h == 0 {
		return 0, performance
	}
	actual := series[len(series)-h:]

	totalAccuracy := 0.0
	for name, result := range perAlgorithm {
		predicted := result.Forecast
		if len(predicted) > h {
			predicted = predicted[:h]
		}
		mape := meanAbsolutePercentageError(actual[:len(predicted)], predicted)
		accuracy := 1 - mape/100
		if accuracy < 0 {
			accuracy = 0
		}
		performance[name] = models.AlgorithmPerformance{
			MAPE:     mape,
			RMSE:     rootMeanSquaredError(actual[:len(predicted)], predicted),
			Accuracy: accuracy,
		}
		totalAccuracy += accuracy
	}

	if len(performance) == 0 {
		return 0, performance
	}
	return totalAccuracy / float64(len(performance)), performance
}

// HoldoutError scores a combined forecast against the holdout, returning
// MAPE and RMSE.
func (v *Validator) HoldoutError(forecast, series []float64) (mape, rmse float64) {
	h := holdoutSize(len(series))
	if h == 0 || len(forecast) == 0 {
		return 0, 0
	}
	if h > len(forecast) {
		h = len(forecast)
	}
	actual := series[len(series)-h:]
	predicted := forecast[:h]
	return meanAbsolutePercentageError(actual, predicted), rootMeanSquaredError(actual, predicted)
}
