package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// SystemUserID stamps audit fields on writes no operator triggered
	// (system account bootstrap, scheduled reconciliation).
	SystemUserID string

	// WriteRateLimit is a ulule/limiter formatted rate ("100-M") applied to
	// the payment endpoints.
	WriteRateLimit string

	// ReconciliationInterval is how often the background reconciliation job
	// replays the ledger against stored balances.
	ReconciliationInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SYSTEM_USER_ID", "system")
	viper.SetDefault("WRITE_RATE_LIMIT", "100-M")
	viper.SetDefault("RECONCILIATION_INTERVAL", "24h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.SystemUserID = viper.GetString("SYSTEM_USER_ID")
	cfg.WriteRateLimit = viper.GetString("WRITE_RATE_LIMIT")

	intervalStr := viper.GetString("RECONCILIATION_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		interval = 24 * time.Hour
		if intervalStr != "" {
			log.Printf("Warning: Invalid value for RECONCILIATION_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
		}
	}
	cfg.ReconciliationInterval = interval

	return cfg, nil
}
