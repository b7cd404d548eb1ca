package inventory

import (
	"github.com/shopspring/decimal"

	"demandcast/models"
)

// PriceOptimizer recommends a price adjustment from a demand-elasticity
// estimate. This is a single deterministic formula, not an iterative
// optimization.
type PriceOptimizer struct{}

func NewPriceOptimizer() *PriceOptimizer {
	return &PriceOptimizer{}
}

// OptimizePrice computes
//
//	optimal = current * (1 + targetMargin) * (1 + elasticity*0.1)
//
// and the expected demand change from the elasticity and the relative price
// move. Prices are rounded to cents.
func (p *PriceOptimizer) OptimizePrice(currentPrice, targetMargin, elasticity float64, market models.MarketData) models.PriceRecommendation {
	optimal := currentPrice * (1 + targetMargin) * (1 + elasticity*0.1)
	if optimal < 0 {
		optimal = 0
	}
	rounded, _ := decimal.NewFromFloat(optimal).Round(2).Float64()

	priceChangePct := 0.0
	if currentPrice > 0 {
		priceChangePct = (rounded - currentPrice) / currentPrice * 100
	}

	// Elasticity relates relative demand change to relative price change.
	expectedDemandChange := elasticity * priceChangePct

	// More market context, more trust in the recommendation.
	confidence := 0.5
	if market.CompetitorPrice > 0 {
		confidence += 0.1
	}
	if market.DemandTrend != 0 {
		confidence += 0.1
	}
	if market.StockLevel > 0 {
		confidence += 0.1
	}

	return models.PriceRecommendation{
		CurrentPrice:         currentPrice,
		OptimalPrice:         rounded,
		ExpectedDemandChange: expectedDemandChange,
		Confidence:           confidence,
	}
}
