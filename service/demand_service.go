package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"demandcast/forecast"
	"demandcast/inventory"
	"demandcast/models"
)

// ValidationError rejects malformed inputs before any computation starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// maxHorizonDays caps how far ahead a forecast may reach.
const maxHorizonDays = 365

// DataStore is the upstream boundary the service pulls sales data through.
type DataStore interface {
	SalesHistory(ctx context.Context, itemID string, start, end time.Time) ([]models.SalesRecord, error)
	CurrentStock(ctx context.Context, itemID string) (float64, error)
	ActiveItems(ctx context.Context) ([]string, error)
	LeadTimeStats(ctx context.Context, itemID string, defaultLeadDays float64) (models.LeadTimeStats, error)
}

// Options configure a DemandService.
type Options struct {
	HistoryWindowDays   int
	DefaultHorizonDays  int
	BatchWorkers        int
	DefaultLeadTimeDays float64
	OrderCost           float64
	HoldingCostPerUnit  float64
	ServiceLevelFactor  float64
	RandomForestSeed    int64
}

// DemandService orchestrates the forecasting engine over the sales store.
// Forecasts are computed fresh on every call; no model state survives
// between invocations.
type DemandService struct {
	store     DataStore
	combiner  *forecast.Combiner
	optimizer *inventory.Optimizer
	pricing   *inventory.PriceOptimizer
	opts      Options
}

// NewDemandService wires the engine together. Zero option fields fall back
// to sensible defaults.
func NewDemandService(store DataStore, opts Options) *DemandService {
	if opts.HistoryWindowDays <= 0 {
		opts.HistoryWindowDays = 90
	}
	if opts.DefaultHorizonDays <= 0 {
		opts.DefaultHorizonDays = 30
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 4
	}
	if opts.DefaultLeadTimeDays <= 0 {
		opts.DefaultLeadTimeDays = 7
	}
	return &DemandService{
		store:     store,
		combiner:  forecast.NewCombiner(opts.RandomForestSeed),
		optimizer: inventory.NewOptimizer(opts.OrderCost, opts.HoldingCostPerUnit, opts.ServiceLevelFactor),
		pricing:   inventory.NewPriceOptimizer(),
		opts:      opts,
	}
}

// ForecastDemand fetches the sales window for a product, aggregates it into
// a daily series and runs the ensemble. Upstream fetch failures surface to
// the caller; an empty history yields a zero forecast.
func (s *DemandService) ForecastDemand(ctx context.Context, productID string, horizonDays int) (*models.EnsembleForecast, error) {
	if productID == "" {
		return nil, &ValidationError{Field: "productId", Reason: "must not be empty"}
	}
	if horizonDays < 1 || horizonDays > maxHorizonDays {
		return nil, &ValidationError{Field: "horizonDays", Reason: fmt.Sprintf("must be between 1 and %d", maxHorizonDays)}
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -s.opts.HistoryWindowDays)
	records, err := s.store.SalesHistory(ctx, productID, start, end)
	if err != nil {
		return nil, err
	}

	points := forecast.Aggregate(records, start, s.opts.HistoryWindowDays)
	if totalQuantity(points) == 0 {
		// No completed sales in the window: zero demand, minimal confidence.
		return s.combiner.Combine(nil, nil, horizonDays)
	}

	return s.combiner.Combine(forecast.Series(points), forecast.Dates(points), horizonDays)
}

// BatchForecastDemand forecasts many products through a bounded worker
// pool. One product's failure is captured, never aborts the batch.
func (s *DemandService) BatchForecastDemand(ctx context.Context, productIDs []string, horizonDays int) (*models.BatchForecastResult, error) {
	if horizonDays < 1 || horizonDays > maxHorizonDays {
		return nil, &ValidationError{Field: "horizonDays", Reason: fmt.Sprintf("must be between 1 and %d", maxHorizonDays)}
	}

	result := &models.BatchForecastResult{
		Successful: make([]models.ProductForecast, 0, len(productIDs)),
		Failed:     make([]models.FailedProduct, 0),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchWorkers)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			fc, err := s.ForecastDemand(gctx, id, horizonDays)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("⚠️ [BATCH FORECAST] Product %s failed: %v", id, err)
				result.Failed = append(result.Failed, models.FailedProduct{ProductID: id, Error: err.Error()})
				return nil
			}
			result.Successful = append(result.Successful, models.ProductForecast{ProductID: id, Forecast: fc})
			return nil
		})
	}
	// Workers never return errors; failures are collected per product.
	_ = g.Wait()

	total := len(productIDs)
	result.Summary = models.BatchSummary{
		Total:     total,
		Succeeded: len(result.Successful),
		Failed:    len(result.Failed),
	}
	if total > 0 {
		result.Summary.SuccessRate = float64(len(result.Successful)) / float64(total) * 100
	}

	return result, nil
}

// OptimizeInventory derives reorder parameters for one product from a fresh
// forecast plus its current stock and lead-time stats.
func (s *DemandService) OptimizeInventory(ctx context.Context, productID string) (*models.InventoryOptimization, error) {
	fc, err := s.ForecastDemand(ctx, productID, s.opts.DefaultHorizonDays)
	if err != nil {
		return nil, err
	}

	stock, err := s.store.CurrentStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	lead, err := s.store.LeadTimeStats(ctx, productID, s.opts.DefaultLeadTimeDays)
	if err != nil {
		return nil, err
	}

	opt := s.optimizer.Optimize(productID, fc, lead, stock)
	return &opt, nil
}

// GenerateInventoryRecommendations sweeps all active products. Products that
// fail are skipped and recorded; the sweep itself never aborts on a single
// product.
func (s *DemandService) GenerateInventoryRecommendations(ctx context.Context) (*models.RecommendationReport, error) {
	itemIDs, err := s.store.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.RecommendationReport{
		ReportID:                  uuid.NewString(),
		GeneratedAt:               time.Now().UTC(),
		Recommendations:           make([]models.InventoryOptimization, 0, len(itemIDs)),
		CriticalItems:             make([]models.InventoryOptimization, 0),
		OptimizationOpportunities: make([]models.InventoryOptimization, 0),
		Failed:                    make([]models.FailedProduct, 0),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchWorkers)
	for _, id := range itemIDs {
		id := id
		g.Go(func() error {
			opt, err := s.OptimizeInventory(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("⚠️ [RECOMMENDATIONS] Product %s skipped: %v", id, err)
				report.Failed = append(report.Failed, models.FailedProduct{ProductID: id, Error: err.Error()})
				return nil
			}
			report.Recommendations = append(report.Recommendations, *opt)
			if opt.RecommendedAction == models.ActionReorderNow {
				report.CriticalItems = append(report.CriticalItems, *opt)
			}
			if opt.ReorderPoint > 0 && opt.CurrentStock > 2*opt.ReorderPoint {
				// Overstocked: capital tied up well beyond the reorder level.
				report.OptimizationOpportunities = append(report.OptimizationOpportunities, *opt)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Summary = models.RecommendationSummary{
		TotalProducts:    len(itemIDs),
		CriticalCount:    len(report.CriticalItems),
		OpportunityCount: len(report.OptimizationOpportunities),
		FailedCount:      len(report.Failed),
	}

	return report, nil
}

// OptimizePrice recommends a price adjustment; see inventory.PriceOptimizer.
func (s *DemandService) OptimizePrice(currentPrice, targetMargin, elasticity float64, market models.MarketData) (*models.PriceRecommendation, error) {
	if currentPrice <= 0 {
		return nil, &ValidationError{Field: "currentPrice", Reason: "must be positive"}
	}
	rec := s.pricing.OptimizePrice(currentPrice, targetMargin, elasticity, market)
	return &rec, nil
}

func totalQuantity(points []models.TimeSeriesPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Quantity
	}
	return total
}
