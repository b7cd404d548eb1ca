package config

import (
	"os"
	"strconv"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret string

	// Inventory optimization knobs. The EOQ order/holding costs are
	// business parameters, not model constants, so they come from the
	// environment with conservative defaults.
	OrderCost           float64
	HoldingCostPerUnit  float64
	ServiceLevelFactor  float64
	DefaultLeadTimeDays float64

	// Forecasting knobs.
	HistoryWindowDays   int
	DefaultHorizonDays  int
	BatchWorkers        int
	RandomForestSeed    int64
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load populates AppConfig from environment variables, applying defaults
// for everything except the JWT secret.
func Load() {
	AppConfig = Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		OrderCost:           envFloat("ORDER_COST", 50),
		HoldingCostPerUnit:  envFloat("HOLDING_COST_PER_UNIT", 2),
		ServiceLevelFactor:  envFloat("SERVICE_LEVEL_FACTOR", 1.5),
		DefaultLeadTimeDays: envFloat("DEFAULT_LEAD_TIME_DAYS", 7),
		HistoryWindowDays:   envInt("HISTORY_WINDOW_DAYS", 90),
		DefaultHorizonDays:  envInt("DEFAULT_HORIZON_DAYS", 30),
		BatchWorkers:        envInt("BATCH_WORKERS", 4),
		RandomForestSeed:    int64(envInt("RANDOM_FOREST_SEED", 42)),
	}
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
