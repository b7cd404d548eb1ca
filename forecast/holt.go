package forecast

import (
	"time"

	"demandcast/models"
)

// DoubleExponentialSmoothing is Holt's method: a smoothed level plus a
// smoothed trend, producing a linearly trending forecast. It also serves as
// the degradation target when Holt-Winters finds no usable seasonal period.
type DoubleExponentialSmoothing struct {
	Alpha float64
	Beta  float64
}

// NewDoubleExponentialSmoothing returns Holt smoothing with alpha 0.3 and
// beta 0.1.
func NewDoubleExponentialSmoothing() *DoubleExponentialSmoothing {
	return &DoubleExponentialSmoothing{Alpha: 0.3, Beta: 0.1}
}

func (f *DoubleExponentialSmoothing) Name() string {
	return "double_exponential_smoothing"
}

func (f *DoubleExponentialSmoothing) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	if len(series) < 2 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 2, Got: len(series)}
	}

	alpha, beta := f.Alpha, f.Beta
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	if beta <= 0 || beta > 1 {
		beta = 0.1
	}

	level := series[0]
	trend := series[1] - series[0]

	fitted := make([]float64, len(series))
	fitted[0] = series[0]
	for i := 1; i < len(series); i++ {
		fitted[i] = level + trend
		prevLevel := level
		level = alpha*series[i] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = clampDemand(level + float64(i+1)*trend)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    accuracyConfidence(series, fitted),
		Metadata:      map[string]interface{}{"alpha": alpha, "beta": beta, "level": level, "trend": trend},
	}, nil
}
