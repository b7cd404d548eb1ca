package forecast

import (
	"time"

	"demandcast/models"
)

// ExponentialSmoothing implements simple exponential smoothing. The forecast
// is flat at the final smoothed level.
type ExponentialSmoothing struct {
	Alpha float64
}

// NewExponentialSmoothing returns a smoother with the default alpha of 0.3.
func NewExponentialSmoothing() *ExponentialSmoothing {
	return &ExponentialSmoothing{Alpha: 0.3}
}

func (f *ExponentialSmoothing) Name() string {
	return "exponential_smoothing"
}

func (f *ExponentialSmoothing) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	if len(series) < 1 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 1, Got: len(series)}
	}

	alpha := f.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}

	// One-step-ahead fitted values.
	fitted := make([]float64, len(series))
	fitted[0] = series[0]
	level := series[0]
	for i := 1; i < len(series); i++ {
		fitted[i] = level
		level = alpha*series[i] + (1-alpha)*level
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = clampDemand(level)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    accuracyConfidence(series, fitted),
		Metadata:      map[string]interface{}{"alpha": alpha, "level": level},
	}, nil
}
