package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Sales input ---

// SalesRecord is a single sale line fetched from the sales store.
// Only records with Status == "completed" are eligible for aggregation.
type SalesRecord struct {
	ProductID string    `json:"product_id"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// SaleStatusCompleted is the only status the aggregator accepts.
const SaleStatusCompleted = "completed"

// TimeSeriesPoint is one calendar day of aggregated demand.
// A series of these is always contiguous and chronologically ordered;
// days without sales carry zeroed fields.
type TimeSeriesPoint struct {
	Date             time.Time `json:"date"`
	Quantity         float64   `json:"quantity"`
	Revenue          float64   `json:"revenue"`
	TransactionCount int       `json:"transaction_count"`
}

// --- Forecast outputs ---

// AlgorithmForecast is the output of a single forecasting algorithm.
// Immutable once returned.
type AlgorithmForecast struct {
	AlgorithmName string                 `json:"algorithm_name"`
	Forecast      []float64              `json:"forecast"`
	Confidence    float64                `json:"confidence"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// Seasonality describes detected periodic structure in the series.
type Seasonality struct {
	Detected bool    `json:"detected"`
	Weekly   float64 `json:"weekly"`
	Monthly  float64 `json:"monthly"`
}

// ModelMetrics holds back-test diagnostics for the ensemble.
type ModelMetrics struct {
	MAPE             float64 `json:"mape"`
	RMSE             float64 `json:"rmse"`
	EnsembleAccuracy float64 `json:"ensemble_accuracy"`
}

// EnsembleForecast is the combined result of all forecasting algorithms.
type EnsembleForecast struct {
	Forecast           []float64                    `json:"forecast"`
	Trend              float64                      `json:"trend"`
	Volatility         float64                      `json:"volatility"`
	Seasonality        Seasonality                  `json:"seasonality"`
	Confidence         float64                      `json:"confidence"`
	TotalDemand        float64                      `json:"total_demand"`
	AverageDailyDemand float64                      `json:"average_daily_demand"`
	PerAlgorithm       map[string]AlgorithmForecast `json:"per_algorithm"`
	ModelMetrics       ModelMetrics                 `json:"model_metrics"`
}

// AlgorithmPerformance is the back-test result for one algorithm.
type AlgorithmPerformance struct {
	MAPE     float64 `json:"mape"`
	RMSE     float64 `json:"rmse"`
	Accuracy float64 `json:"accuracy"`
}

// --- Inventory & pricing ---

// LeadTimeStats describes replenishment lead time for a product,
// supplied by the upstream store (supplier data or configured default).
type LeadTimeStats struct {
	LeadTimeDays float64 `json:"lead_time_days"`
	UnitCost     float64 `json:"unit_cost"`
}

// InventoryOptimization is a derived entity, recomputed on every call.
type InventoryOptimization struct {
	ProductID            string  `json:"product_id"`
	CurrentStock         float64 `json:"current_stock"`
	ReorderPoint         float64 `json:"reorder_point"`
	OptimalOrderQuantity float64 `json:"optimal_order_quantity"`
	SafetyStock          float64 `json:"safety_stock"`
	ForecastedDemand     float64 `json:"forecasted_demand"`
	RecommendedAction    string  `json:"recommended_action"`
	Confidence           float64 `json:"confidence"`
	CostImpact           float64 `json:"cost_impact"`
}

// Recommended actions for InventoryOptimization.
const (
	ActionReorderNow  = "reorder_now"
	ActionReorderSoon = "reorder_soon"
	ActionMonitor     = "monitor"
)

// PriceRecommendation is the output of the price optimizer.
type PriceRecommendation struct {
	CurrentPrice         float64 `json:"current_price"`
	OptimalPrice         float64 `json:"optimal_price"`
	ExpectedDemandChange float64 `json:"expected_demand_change"`
	Confidence           float64 `json:"confidence"`
}

// MarketData carries optional market context for price optimization.
type MarketData struct {
	CompetitorPrice float64 `json:"competitor_price,omitempty"`
	DemandTrend     float64 `json:"demand_trend,omitempty"`
	StockLevel      float64 `json:"stock_level,omitempty"`
}

// --- Batch results ---

// ProductForecast pairs a product with its ensemble forecast.
type ProductForecast struct {
	ProductID string            `json:"product_id"`
	Forecast  *EnsembleForecast `json:"forecast"`
}

// FailedProduct records a product whose forecast could not be produced.
type FailedProduct struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

// BatchSummary summarizes a batch forecast run.
type BatchSummary struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

// BatchForecastResult is the outcome of forecasting many products at once.
type BatchForecastResult struct {
	Successful []ProductForecast `json:"successful"`
	Failed     []FailedProduct   `json:"failed"`
	Summary    BatchSummary      `json:"summary"`
}

// RecommendationReport is the output of a full inventory sweep.
type RecommendationReport struct {
	ReportID                  string                  `json:"report_id"`
	GeneratedAt               time.Time               `json:"generated_at"`
	Recommendations           []InventoryOptimization `json:"recommendations"`
	CriticalItems             []InventoryOptimization `json:"criticalItems"`
	OptimizationOpportunities []InventoryOptimization `json:"optimizationOpportunities"`
	Failed                    []FailedProduct         `json:"failed"`
	Summary                   RecommendationSummary   `json:"summary"`
}

// RecommendationSummary counts the outcome of a recommendation sweep.
type RecommendationSummary struct {
	TotalProducts    int `json:"total_products"`
	CriticalCount    int `json:"critical_count"`
	OpportunityCount int `json:"opportunity_count"`
	FailedCount      int `json:"failed_count"`
}
