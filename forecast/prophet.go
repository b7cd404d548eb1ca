package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"demandcast/models"
)

// ProphetLike is an additive decomposition in the style of Prophet: a linear
// growth term, a weekly seasonal profile, and a holiday hook. The holiday
// term is an extension point only; no calendar data feeds it here.
type ProphetLike struct {
	// HolidayAdjust, when set, returns an additive adjustment for a date.
	HolidayAdjust func(day time.Time) float64
}

func NewProphetLike() *ProphetLike {
	return &ProphetLike{}
}

func (f *ProphetLike) Name() string {
	return "prophet"
}

func (f *ProphetLike) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	n := len(series)
	if n < 21 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 21, Got: n}
	}
	if len(dates) != n {
		dates = synthesizeDates(n)
	}

	// Growth: least squares over the day index.
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, series, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(slope) {
		return models.AlgorithmForecast{}, &NumericInstabilityError{Algorithm: f.Name(), Reason: "degenerate trend fit"}
	}

	trend := make([]float64, n)
	detrended := make([]float64, n)
	for i := range series {
		trend[i] = intercept + slope*float64(i)
		detrended[i] = series[i] - trend[i]
	}

	// Weekly seasonality: mean detrended value per weekday.
	weekly := make([]float64, 7)
	counts := make([]int, 7)
	for i, day := range dates {
		wd := int(day.Weekday())
		weekly[wd] += detrended[i]
		counts[wd]++
	}
	for i := range weekly {
		if counts[i] > 0 {
			weekly[i] /= float64(counts[i])
		}
	}

	residuals := make([]float64, n)
	for i, day := range dates {
		residuals[i] = detrended[i] - weekly[int(day.Weekday())]
	}
	residStd := popStdDev(residuals)

	lastDate := dates[n-1]
	forecast := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		day := lastDate.AddDate(0, 0, i+1)
		v := intercept + slope*float64(n+i) + weekly[int(day.Weekday())]
		if f.HolidayAdjust != nil {
			v += f.HolidayAdjust(day)
		}
		forecast[i] = clampDemand(v)
		lower[i] = clampDemand(v - 1.96*residStd)
		upper[i] = v + 1.96*residStd
	}

	// Confidence from how much of the modeled variance is structure rather
	// than residual noise.
	trendVar := popVariance(trend)
	confidence := minConfidence
	if trendVar+popVariance(residuals) > 0 {
		confidence = clampConfidence(trendVar / (trendVar + popVariance(residuals)))
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    confidence,
		Metadata: map[string]interface{}{
			"growth_slope": slope,
			"lower_bound":  lower,
			"upper_bound":  upper,
		},
	}, nil
}
