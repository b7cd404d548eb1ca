package forecast

import (
	"time"

	"demandcast/models"
)

// HoltWinters is triple exponential smoothing with multiplicative
// seasonality. The seasonal period is detected from the series (weekly,
// biweekly or monthly); when no period is found the algorithm degrades to
// plain Holt smoothing.
type HoltWinters struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// NewHoltWinters returns a Holt-Winters smoother with alpha 0.3, beta 0.1,
// gamma 0.1.
func NewHoltWinters() *HoltWinters {
	return &HoltWinters{Alpha: 0.3, Beta: 0.1, Gamma: 0.1}
}

func (f *HoltWinters) Name() string {
	return "holt_winters"
}

func (f *HoltWinters) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	if len(series) < 14 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 14, Got: len(series)}
	}

	period := detectSeasonalPeriod(series)
	if period < 2 {
		// No seasonal structure worth modeling.
		holt := NewDoubleExponentialSmoothing()
		result, err := holt.Forecast(series, dates, horizon)
		if err != nil {
			return models.AlgorithmForecast{}, err
		}
		result.AlgorithmName = f.Name()
		result.Metadata["degraded_to"] = holt.Name()
		return result, nil
	}

	alpha, beta, gamma := f.Alpha, f.Beta, f.Gamma
	n := len(series)

	// Level starts as the mean of the first season, trend as the average
	// step across it.
	level := mean(series[:period])
	trend := (series[period] - series[0]) / float64(period)

	// Multiplicative seasonal indices, normalized to mean 1.
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		if level != 0 {
			seasonal[i] = series[i] / level
		} else {
			seasonal[i] = 1
		}
	}
	normalizeIndices(seasonal)

	fitted := make([]float64, n)
	fitted[0] = level * seasonal[0]
	for i := 1; i < n; i++ {
		idx := i % period
		s := seasonal[idx]
		if s == 0 {
			s = 1
		}

		fitted[i] = (level + trend) * s

		prevLevel := level
		level = alpha*(series[i]/s) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		if level != 0 {
			seasonal[idx] = gamma*(series[i]/level) + (1-gamma)*s
		}
	}
	normalizeIndices(seasonal)

	forecast := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		s := seasonal[(n+i)%period]
		if s == 0 {
			s = 1
		}
		forecast[i] = clampDemand((level + float64(i+1)*trend) * s)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    accuracyConfidence(series, fitted),
		Metadata: map[string]interface{}{
			"alpha": alpha, "beta": beta, "gamma": gamma,
			"seasonal_period": period,
		},
	}, nil
}

// normalizeIndices rescales multiplicative seasonal indices to mean 1 so the
// seasonal component redistributes demand without inflating it.
func normalizeIndices(indices []float64) {
	avg := mean(indices)
	if avg == 0 {
		return
	}
	for i := range indices {
		indices[i] /= avg
	}
}
