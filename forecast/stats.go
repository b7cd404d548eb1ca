package forecast

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return stat.Mean(series, nil)
}

func sum(series []float64) float64 {
	return floats.Sum(series)
}

// popStdDev is the population standard deviation. Demand series are treated
// as the full population, not a sample.
func popStdDev(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return stat.PopStdDev(series, nil)
}

func popVariance(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return stat.PopVariance(series, nil)
}

func median(series []float64) float64 {
	n := len(series)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, series)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// meanAbsoluteError compares fitted values against actuals.
func meanAbsoluteError(actual, predicted []float64) float64 {
	n := len(actual)
	if n == 0 || n != len(predicted) {
		return 0
	}
	total := 0.0
	for i := range actual {
		total += math.Abs(actual[i] - predicted[i])
	}
	return total / float64(n)
}

// meanAbsolutePercentageError returns MAPE in percent, skipping zero actuals
// so zero-demand days do not blow up the ratio.
func meanAbsolutePercentageError(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}
	total := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			total += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return (total / float64(count)) * 100
}

func rootMeanSquaredError(actual, predicted []float64) float64 {
	n := len(actual)
	if n == 0 || n != len(predicted) {
		return 0
	}
	total := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		total += diff * diff
	}
	return math.Sqrt(total / float64(n))
}

// autocorrelation is the Pearson correlation of the series against itself
// shifted by lag. Returns 0 when the lag leaves fewer than two pairs or the
// series is constant.
func autocorrelation(series []float64, lag int) float64 {
	n := len(series)
	if lag <= 0 || n-lag < 2 {
		return 0
	}
	r := stat.Correlation(series[lag:], series[:n-lag], nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// seasonalStrength averages the autocorrelation at one to several multiples
// of the candidate period, as far as the series allows.
func seasonalStrength(series []float64, period int) float64 {
	if period < 2 {
		return 0
	}
	total := 0.0
	count := 0
	for lag := period; lag < len(series)-1; lag += period {
		total += autocorrelation(series, lag)
		count++
		if count == 3 {
			break
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// seasonalPeriodCandidates are the cycle lengths that make sense for daily
// retail demand: weekly, biweekly and monthly.
var seasonalPeriodCandidates = []int{7, 14, 30}

// detectSeasonalPeriod picks the candidate period with the strongest
// autocorrelation. Returns 0 when no candidate fits the series or none shows
// positive correlation.
func detectSeasonalPeriod(series []float64) int {
	best := 0
	bestStrength := 0.0
	for _, period := range seasonalPeriodCandidates {
		if len(series) < period*2 {
			continue
		}
		s := seasonalStrength(series, period)
		if s > bestStrength {
			best = period
			bestStrength = s
		}
	}
	return best
}

// firstDifferences returns series[i+1] - series[i].
func firstDifferences(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	diffs := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diffs[i-1] = series[i] - series[i-1]
	}
	return diffs
}
