package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demandcast/models"
	"demandcast/store"
)

// fakeStore serves canned data and scripted failures in place of Postgres.
type fakeStore struct {
	history map[string][]models.SalesRecord
	stock   map[string]float64
	lead    map[string]models.LeadTimeStats
	items   []string
	failFor map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		history: map[string][]models.SalesRecord{},
		stock:   map[string]float64{},
		lead:    map[string]models.LeadTimeStats{},
		failFor: map[string]error{},
	}
}

// addSteadyHistory fills the last 90 days with the given daily quantity.
func (f *fakeStore) addSteadyHistory(itemID string, dailyQty float64) {
	now := time.Now().UTC()
	records := make([]models.SalesRecord, 0, 90)
	for i := 1; i <= 90; i++ {
		records = append(records, models.SalesRecord{
			Quantity:  dailyQty,
			UnitPrice: 3,
			CreatedAt: now.AddDate(0, 0, -i),
			Status:    models.SaleStatusCompleted,
		})
	}
	f.history[itemID] = records
}

func (f *fakeStore) SalesHistory(ctx context.Context, itemID string, start, end time.Time) ([]models.SalesRecord, error) {
	if err := f.failFor[itemID]; err != nil {
		return nil, err
	}
	return f.history[itemID], nil
}

func (f *fakeStore) CurrentStock(ctx context.Context, itemID string) (float64, error) {
	if err := f.failFor[itemID]; err != nil {
		return 0, err
	}
	return f.stock[itemID], nil
}

func (f *fakeStore) ActiveItems(ctx context.Context) ([]string, error) {
	return f.items, nil
}

func (f *fakeStore) LeadTimeStats(ctx context.Context, itemID string, defaultLeadDays float64) (models.LeadTimeStats, error) {
	if lead, ok := f.lead[itemID]; ok {
		return lead, nil
	}
	return models.LeadTimeStats{LeadTimeDays: defaultLeadDays}, nil
}

func newTestService(fs *fakeStore) *DemandService {
	return NewDemandService(fs, Options{RandomForestSeed: 42})
}

func TestForecastDemandValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	var verr *ValidationError

	_, err := svc.ForecastDemand(context.Background(), "", 30)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "productId", verr.Field)

	_, err = svc.ForecastDemand(context.Background(), "item-1", 0)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "horizonDays", verr.Field)

	_, err = svc.ForecastDemand(context.Background(), "item-1", 366)
	assert.True(t, errors.As(err, &verr))
}

func TestForecastDemandSteadyHistory(t *testing.T) {
	fs := newFakeStore()
	fs.addSteadyHistory("item-1", 10)
	svc := newTestService(fs)

	fc, err := svc.ForecastDemand(context.Background(), "item-1", 14)
	require.NoError(t, err)

	assert.Len(t, fc.Forecast, 14)
	assert.InDelta(t, 10.0, fc.AverageDailyDemand, 1.5)
	for _, v := range fc.Forecast {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestForecastDemandEmptyHistory(t *testing.T) {
	svc := newTestService(newFakeStore())

	fc, err := svc.ForecastDemand(context.Background(), "never-sold", 7)
	require.NoError(t, err)

	assert.Len(t, fc.Forecast, 7)
	assert.Zero(t, fc.TotalDemand)
	assert.Equal(t, 0.1, fc.Confidence)
}

func TestForecastDemandUpstreamFailure(t *testing.T) {
	fs := newFakeStore()
	fs.failFor["item-1"] = &store.UpstreamDataError{Op: "sales history", Err: errors.New("connection refused")}
	svc := newTestService(fs)

	_, err := svc.ForecastDemand(context.Background(), "item-1", 7)
	var upstream *store.UpstreamDataError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "sales history", upstream.Op)
}

func TestBatchForecastIsolatesFailures(t *testing.T) {
	fs := newFakeStore()
	ids := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, id := range ids {
		fs.addSteadyHistory(id, 5)
	}
	fs.failFor["p3"] = &store.UpstreamDataError{Op: "sales history", Err: errors.New("timeout")}
	svc := newTestService(fs)

	result, err := svc.BatchForecastDemand(context.Background(), ids, 7)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Summary.Total)
	assert.Equal(t, 4, result.Summary.Succeeded)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.InDelta(t, 80.0, result.Summary.SuccessRate, 1e-9)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "p3", result.Failed[0].ProductID)
	assert.NotEmpty(t, result.Failed[0].Error)

	for _, pf := range result.Successful {
		assert.NotEqual(t, "p3", pf.ProductID)
		assert.Len(t, pf.Forecast.Forecast, 7)
	}
}

func TestBatchForecastRejectsBadHorizon(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.BatchForecastDemand(context.Background(), []string{"p1"}, -1)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestOptimizeInventoryLowStock(t *testing.T) {
	fs := newFakeStore()
	fs.addSteadyHistory("item-1", 10)
	fs.stock["item-1"] = 50
	fs.lead["item-1"] = models.LeadTimeStats{LeadTimeDays: 7, UnitCost: 2.5}
	svc := newTestService(fs)

	opt, err := svc.OptimizeInventory(context.Background(), "item-1")
	require.NoError(t, err)

	assert.Equal(t, "item-1", opt.ProductID)
	assert.Equal(t, 50.0, opt.CurrentStock)
	// ~10/day over a 7 day lead: safety stock far above the 50 on hand.
	assert.Greater(t, opt.SafetyStock, 50.0)
	assert.Greater(t, opt.ReorderPoint, opt.SafetyStock)
	assert.Equal(t, models.ActionReorderNow, opt.RecommendedAction)
	assert.Greater(t, opt.OptimalOrderQuantity, 0.0)
}

func TestGenerateInventoryRecommendations(t *testing.T) {
	fs := newFakeStore()
	fs.items = []string{"critical", "overstocked", "broken"}
	fs.addSteadyHistory("critical", 10)
	fs.addSteadyHistory("overstocked", 10)
	fs.stock["critical"] = 0
	fs.stock["overstocked"] = 10000
	fs.failFor["broken"] = &store.UpstreamDataError{Op: "sales history", Err: errors.New("down")}
	svc := newTestService(fs)

	report, err := svc.GenerateInventoryRecommendations(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ReportID)
	assert.False(t, report.GeneratedAt.IsZero())

	assert.Equal(t, 3, report.Summary.TotalProducts)
	assert.Equal(t, 1, report.Summary.CriticalCount)
	assert.Equal(t, 1, report.Summary.OpportunityCount)
	assert.Equal(t, 1, report.Summary.FailedCount)

	require.Len(t, report.CriticalItems, 1)
	assert.Equal(t, "critical", report.CriticalItems[0].ProductID)
	require.Len(t, report.OptimizationOpportunities, 1)
	assert.Equal(t, "overstocked", report.OptimizationOpportunities[0].ProductID)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "broken", report.Failed[0].ProductID)
}

func TestOptimizePriceValidatesCurrentPrice(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.OptimizePrice(0, 0.2, -1.5, models.MarketData{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "currentPrice", verr.Field)

	rec, err := svc.OptimizePrice(100, 0.2, -1.5, models.MarketData{})
	require.NoError(t, err)
	assert.Equal(t, 102.0, rec.OptimalPrice)
}
