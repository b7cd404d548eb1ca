package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"demandcast/models"
)

// Optimizer derives inventory parameters from a demand forecast. Order and
// holding costs are business inputs, not model constants, so they arrive
// through the struct rather than being hardcoded.
type Optimizer struct {
	// OrderCost is the fixed cost of placing one order.
	OrderCost float64
	// HoldingCostPerUnit is the cost of keeping one unit in stock over the
	// forecast window.
	HoldingCostPerUnit float64
	// ServiceFactor buffers safety stock against demand and lead-time
	// variability.
	ServiceFactor float64
}

// NewOptimizer applies the conventional defaults (order cost 50, holding
// cost 2, service factor 1.5) for any field left at zero.
func NewOptimizer(orderCost, holdingCost, serviceFactor float64) *Optimizer {
	if orderCost <= 0 {
		orderCost = 50
	}
	if holdingCost <= 0 {
		holdingCost = 2
	}
	if serviceFactor <= 0 {
		serviceFactor = 1.5
	}
	return &Optimizer{OrderCost: orderCost, HoldingCostPerUnit: holdingCost, ServiceFactor: serviceFactor}
}

// Optimize computes safety stock, reorder point and EOQ for a product.
// Recomputed on every call; nothing is persisted.
//
// Invariant: reorder point >= safety stock for all non-negative demand and
// lead-time inputs, since the reorder point adds lead-time demand on top of
// the safety stock.
func (o *Optimizer) Optimize(productID string, fc *models.EnsembleForecast, lead models.LeadTimeStats, currentStock float64) models.InventoryOptimization {
	avgDaily := fc.AverageDailyDemand
	if avgDaily < 0 {
		avgDaily = 0
	}
	leadDays := lead.LeadTimeDays
	if leadDays < 0 {
		leadDays = 0
	}

	safetyStock := avgDaily * leadDays * o.ServiceFactor
	reorderPoint := avgDaily*leadDays + safetyStock

	eoq := 0.0
	if fc.TotalDemand > 0 && o.HoldingCostPerUnit > 0 {
		eoq = math.Sqrt(2 * fc.TotalDemand * o.OrderCost / o.HoldingCostPerUnit)
	}

	action := models.ActionMonitor
	switch {
	case currentStock <= safetyStock:
		action = models.ActionReorderNow
	case currentStock <= reorderPoint:
		action = models.ActionReorderSoon
	}

	return models.InventoryOptimization{
		ProductID:            productID,
		CurrentStock:         currentStock,
		ReorderPoint:         reorderPoint,
		OptimalOrderQuantity: eoq,
		SafetyStock:          safetyStock,
		ForecastedDemand:     fc.TotalDemand,
		RecommendedAction:    action,
		Confidence:           fc.Confidence,
		CostImpact:           o.costImpact(currentStock, reorderPoint, eoq),
	}
}

// costImpact estimates the holding cost tied up in stock beyond the reorder
// point plus one optimal order, rounded to cents.
func (o *Optimizer) costImpact(currentStock, reorderPoint, eoq float64) float64 {
	excess := currentStock - (reorderPoint + eoq)
	if excess <= 0 {
		return 0
	}
	cost := decimal.NewFromFloat(excess * o.HoldingCostPerUnit).Round(2)
	impact, _ := cost.Float64()
	return impact
}
