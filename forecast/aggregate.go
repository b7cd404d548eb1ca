package forecast

import (
	"time"

	"demandcast/models"
)

// Aggregate folds raw sale lines into a fixed-cadence daily series covering
// [start, start+windowDays). Every day in the window gets a point, so
// zero-sale days appear as zero-demand observations; records outside the
// window, with a non-completed status, or with a missing timestamp are
// dropped. Pure function, inputs are not mutated.
func Aggregate(records []models.SalesRecord, start time.Time, windowDays int) []models.TimeSeriesPoint {
	if windowDays <= 0 {
		return nil
	}

	day := truncateToDay(start)
	points := make([]models.TimeSeriesPoint, windowDays)
	for i := range points {
		points[i] = models.TimeSeriesPoint{Date: day.AddDate(0, 0, i)}
	}

	for _, rec := range records {
		if rec.Status != models.SaleStatusCompleted {
			continue
		}
		if rec.CreatedAt.IsZero() {
			// Unparseable timestamp upstream; drop, not fatal.
			continue
		}
		idx := daysBetween(day, truncateToDay(rec.CreatedAt))
		if idx < 0 || idx >= windowDays {
			continue
		}
		points[idx].Quantity += rec.Quantity
		points[idx].Revenue += rec.Quantity * rec.UnitPrice
		points[idx].TransactionCount++
	}

	return points
}

// Series extracts the per-day demand quantities.
func Series(points []models.TimeSeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Quantity
	}
	return out
}

// Dates extracts the per-day dates.
func Dates(points []models.TimeSeriesPoint) []time.Time {
	out := make([]time.Time, len(points))
	for i, p := range points {
		out[i] = p.Date
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
