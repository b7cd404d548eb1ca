package handlers

import (
	"errors"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"

	"demandcast/config"
	"demandcast/database"
	"demandcast/service"
	"demandcast/store"
)

var (
	svcOnce sync.Once
	svc     *service.DemandService
)

// demandService builds the forecasting service on first use, wired to the
// shared database pool and the loaded configuration.
func demandService() *service.DemandService {
	svcOnce.Do(func() {
		cfg := config.AppConfig
		svc = service.NewDemandService(store.NewSalesStore(database.GetDB()), service.Options{
			HistoryWindowDays:   cfg.HistoryWindowDays,
			DefaultHorizonDays:  cfg.DefaultHorizonDays,
			BatchWorkers:        cfg.BatchWorkers,
			DefaultLeadTimeDays: cfg.DefaultLeadTimeDays,
			OrderCost:           cfg.OrderCost,
			HoldingCostPerUnit:  cfg.HoldingCostPerUnit,
			ServiceLevelFactor:  cfg.ServiceLevelFactor,
			RandomForestSeed:    cfg.RandomForestSeed,
		})
	})
	return svc
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	var ue *store.UpstreamDataError
	if errors.As(err, &ue) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// HandleGetDemandForecast returns the ensemble demand forecast for one item.
func HandleGetDemandForecast(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	horizon := c.QueryInt("horizon", config.AppConfig.DefaultHorizonDays)

	log.Printf("📈 [FORECAST] Request for item %s, horizon %d days", itemID, horizon)

	fc, err := demandService().ForecastDemand(c.Context(), itemID, horizon)
	if err != nil {
		log.Printf("❌ [FORECAST] Item %s failed: %v", itemID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": fc})
}

// BatchForecastInput defines the expected input for a batch forecast.
type BatchForecastInput struct {
	ItemIDs     []string `json:"itemIds"`
	HorizonDays int      `json:"horizonDays"`
}

// HandleBatchForecast forecasts demand for many items at once. Individual
// item failures are reported in the response, not as an HTTP error.
func HandleBatchForecast(c *fiber.Ctx) error {
	var input BatchForecastInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if len(input.ItemIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "itemIds must not be empty"})
	}
	if input.HorizonDays == 0 {
		input.HorizonDays = config.AppConfig.DefaultHorizonDays
	}

	log.Printf("📈 [BATCH FORECAST] %d items, horizon %d days", len(input.ItemIDs), input.HorizonDays)

	result, err := demandService().BatchForecastDemand(c.Context(), input.ItemIDs, input.HorizonDays)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	log.Printf("✅ [BATCH FORECAST] %d succeeded, %d failed", result.Summary.Succeeded, result.Summary.Failed)
	return c.JSON(fiber.Map{"success": true, "data": result})
}
