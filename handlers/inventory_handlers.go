package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"demandcast/models"
	"demandcast/utils"
)

// HandleOptimizeInventory derives reorder point, safety stock and EOQ for
// one item from a fresh demand forecast.
func HandleOptimizeInventory(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	opt, err := demandService().OptimizeInventory(c.Context(), itemID)
	if err != nil {
		log.Printf("❌ [INVENTORY] Optimization for item %s failed: %v", itemID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": opt})
}

// HandleGetRecommendations sweeps all active items and returns reorder
// recommendations, critical items and overstock opportunities.
func HandleGetRecommendations(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)

	report, err := demandService().GenerateInventoryRecommendations(c.Context())
	if err != nil {
		log.Printf("❌ [RECOMMENDATIONS] Sweep failed: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	log.Printf("✅ [RECOMMENDATIONS] %d products, %d critical, %d failed",
		report.Summary.TotalProducts, report.Summary.CriticalCount, report.Summary.FailedCount)

	total := len(report.Recommendations)
	start, end := utils.PageSlice(total, page, pageSize)
	paged := *report
	paged.Recommendations = report.Recommendations[start:end]

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       paged,
		"pagination": utils.CreatePagination(total, page, pageSize),
	})
}

// OptimizePriceInput defines the expected input for a price recommendation.
type OptimizePriceInput struct {
	CurrentPrice float64           `json:"currentPrice"`
	TargetMargin float64           `json:"targetMargin"`
	Elasticity   float64           `json:"elasticity"`
	Market       models.MarketData `json:"market"`
}

// HandleOptimizePrice recommends a price adjustment from a demand
// elasticity estimate.
func HandleOptimizePrice(c *fiber.Ctx) error {
	var input OptimizePriceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	rec, err := demandService().OptimizePrice(input.CurrentPrice, input.TargetMargin, input.Elasticity, input.Market)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": rec})
}
