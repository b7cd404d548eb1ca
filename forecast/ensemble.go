package forecast

import (
	"fmt"
	"log"
	"sync"
	"time"

	"demandcast/models"
)

// ensembleWeights are the fixed per-algorithm weights. They must sum to 1.0.
var ensembleWeights = map[string]float64{
	"exponential_smoothing":  0.20,
	"holt_winters":           0.20,
	"linear_regression":      0.15,
	"seasonal_decomposition": 0.10,
	"random_forest":          0.15,
	"arima":                  0.10,
	"prophet":                0.10,
}

// seasonalityThreshold is the autocorrelation strength above which a weekly
// or monthly cycle counts as detected.
const seasonalityThreshold = 0.3

// Combiner runs every forecasting algorithm and merges their outputs into a
// single weighted forecast. An algorithm that errors is replaced by a
// flat-mean fallback, so the ensemble never degrades to failure.
type Combiner struct {
	forecasters []Forecaster
	validator   *Validator
}

// NewCombiner builds a combiner over the full algorithm library. The seed
// pins the random forest bootstrap.
func NewCombiner(seed int64) *Combiner {
	return &Combiner{
		forecasters: []Forecaster{
			NewExponentialSmoothing(),
			NewHoltWinters(),
			NewLinearRegression(),
			NewSeasonalDecomposition(),
			NewRandomForest(seed),
			NewARIMA(),
			NewProphetLike(),
		},
		validator: NewValidator(),
	}
}

// Weights exposes the fixed ensemble weights (for diagnostics and tests).
func Weights() map[string]float64 {
	out := make(map[string]float64, len(ensembleWeights))
	for k, v := range ensembleWeights {
		out[k] = v
	}
	return out
}

// Combine produces the ensemble forecast for a daily demand series.
func (c *Combiner) Combine(series []float64, dates []time.Time, horizon int) (*models.EnsembleForecast, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	if len(series) == 0 {
		return emptyForecast(horizon), nil
	}
	if len(series) < 7 {
		// Too short for any real model; a flat average is the honest answer.
		fallback := flatMeanForecast("flat_mean", series, horizon)
		return &models.EnsembleForecast{
			Forecast:           fallback.Forecast,
			Confidence:         fallback.Confidence,
			TotalDemand:        sum(fallback.Forecast),
			AverageDailyDemand: mean(fallback.Forecast),
			Volatility:         popStdDev(series),
			PerAlgorithm:       map[string]models.AlgorithmForecast{fallback.AlgorithmName: fallback},
		}, nil
	}

	// The algorithms are independent; run them concurrently and wait for
	// all of them before combining.
	results := make([]models.AlgorithmForecast, len(c.forecasters))
	var wg sync.WaitGroup
	for i, f := range c.forecasters {
		wg.Add(1)
		go func(i int, f Forecaster) {
			defer wg.Done()
			result, err := f.Forecast(series, dates, horizon)
			if err != nil {
				log.Printf("⚠️ [ENSEMBLE] %s failed, using flat-mean fallback: %v", f.Name(), err)
				result = flatMeanForecast(f.Name(), series, horizon)
			}
			results[i] = result
		}(i, f)
	}
	wg.Wait()

	perAlgorithm := make(map[string]models.AlgorithmForecast, len(results))
	for _, r := range results {
		perAlgorithm[r.AlgorithmName] = r
	}

	combined := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		weightedSum, weightTotal := 0.0, 0.0
		for _, r := range results {
			// Guards against an algorithm returning fewer than horizon
			// values; the weights renormalize over what is present.
			if h >= len(r.Forecast) {
				continue
			}
			w := ensembleWeights[r.AlgorithmName]
			weightedSum += w * r.Forecast[h]
			weightTotal += w
		}
		if weightTotal > 0 {
			combined[h] = clampDemand(weightedSum / weightTotal)
		}
	}

	confidence, confWeight := 0.0, 0.0
	for _, r := range results {
		w := ensembleWeights[r.AlgorithmName]
		confidence += w * r.Confidence
		confWeight += w
	}
	if confWeight > 0 {
		confidence = clampConfidence(confidence / confWeight)
	} else {
		confidence = minConfidence
	}

	weekly := seasonalStrength(series, 7)
	monthly := seasonalStrength(series, 30)

	accuracy, _ := c.validator.Validate(perAlgorithm, series)
	mape, rmse := c.validator.HoldoutError(combined, series)

	return &models.EnsembleForecast{
		Forecast: combined,
		// Median of first differences: a robust trend estimate that a
		// single outlier day cannot swing.
		Trend:      median(firstDifferences(series)),
		Volatility: popStdDev(series),
		Seasonality: models.Seasonality{
			Detected: weekly > seasonalityThreshold || monthly > seasonalityThreshold,
			Weekly:   weekly,
			Monthly:  monthly,
		},
		Confidence:         confidence,
		TotalDemand:        sum(combined),
		AverageDailyDemand: mean(combined),
		PerAlgorithm:       perAlgorithm,
		ModelMetrics: models.ModelMetrics{
			MAPE:             mape,
			RMSE:             rmse,
			EnsembleAccuracy: accuracy,
		},
	}, nil
}

func emptyForecast(horizon int) *models.EnsembleForecast {
	return &models.EnsembleForecast{
		Forecast:     make([]float64, horizon),
		Confidence:   minConfidence,
		PerAlgorithm: map[string]models.AlgorithmForecast{},
	}
}
