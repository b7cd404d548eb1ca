package routes

import (
	"demandcast/handlers"
	"demandcast/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Merchant Routes ---
	merchant := api.Group("/merchant", middleware.Authenticate, middleware.CheckRole("merchant", "admin"))

	// Demand forecasting
	merchant.Get("/forecast/:itemId", handlers.HandleGetDemandForecast)
	merchant.Post("/forecast/batch", handlers.HandleBatchForecast)

	// Inventory optimization
	merchant.Get("/inventory/recommendations", handlers.HandleGetRecommendations) // Must be before /inventory/:itemId
	merchant.Get("/inventory/:itemId/optimize", handlers.HandleOptimizeInventory)

	// Pricing
	merchant.Post("/pricing/optimize", handlers.HandleOptimizePrice)
}
