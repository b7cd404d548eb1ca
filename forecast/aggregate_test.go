package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"demandcast/models"
)

func day(offset int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAggregateFillsEveryDay(t *testing.T) {
	records := []models.SalesRecord{
		{Quantity: 3, UnitPrice: 2.5, CreatedAt: day(0).Add(9 * time.Hour), Status: models.SaleStatusCompleted},
		{Quantity: 2, UnitPrice: 2.5, CreatedAt: day(0).Add(15 * time.Hour), Status: models.SaleStatusCompleted},
		{Quantity: 1, UnitPrice: 4, CreatedAt: day(3), Status: models.SaleStatusCompleted},
	}

	points := Aggregate(records, day(0), 5)

	assert.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, day(i), p.Date, "series must be contiguous and ordered")
	}

	assert.Equal(t, 5.0, points[0].Quantity)
	assert.Equal(t, 12.5, points[0].Revenue)
	assert.Equal(t, 2, points[0].TransactionCount)

	// Days without sales are zero-demand observations, not gaps.
	assert.Equal(t, 0.0, points[1].Quantity)
	assert.Equal(t, 0, points[1].TransactionCount)

	assert.Equal(t, 1.0, points[3].Quantity)
	assert.Equal(t, 4.0, points[3].Revenue)
}

func TestAggregateSkipsIneligibleRecords(t *testing.T) {
	records := []models.SalesRecord{
		{Quantity: 5, UnitPrice: 1, CreatedAt: day(1), Status: "pending"},
		{Quantity: 5, UnitPrice: 1, CreatedAt: day(1), Status: "refunded"},
		{Quantity: 5, UnitPrice: 1, Status: models.SaleStatusCompleted},          // missing timestamp
		{Quantity: 5, UnitPrice: 1, CreatedAt: day(-1), Status: models.SaleStatusCompleted}, // before window
		{Quantity: 5, UnitPrice: 1, CreatedAt: day(7), Status: models.SaleStatusCompleted},  // after window
		{Quantity: 2, UnitPrice: 1, CreatedAt: day(1), Status: models.SaleStatusCompleted},
	}

	points := Aggregate(records, day(0), 7)

	total := 0.0
	for _, p := range points {
		total += p.Quantity
	}
	assert.Equal(t, 2.0, total, "only the in-window completed record should count")
}

func TestAggregateEmptyInput(t *testing.T) {
	points := Aggregate(nil, day(0), 10)
	assert.Len(t, points, 10)
	for _, p := range points {
		assert.Zero(t, p.Quantity)
		assert.Zero(t, p.Revenue)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	records := []models.SalesRecord{
		{Quantity: 3, UnitPrice: 2, CreatedAt: day(0), Status: models.SaleStatusCompleted},
	}
	before := records[0]
	Aggregate(records, day(0), 3)
	assert.Equal(t, before, records[0])
}
