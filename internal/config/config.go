package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backend identifiers
const (
	StoreSQLite = "sqlite"
	StoreRemote = "remote"
)

// Config holds application configuration
type Config struct {
	Port            int
	DevMode         bool
	LogLevel        string
	DatabasePath    string
	StoreBackend    string // sqlite or remote
	RemoteStoreURL  string // base URL of the portfolio backend (remote store)
	MarketDataURL   string // base URL of the market data API
	RefreshInterval int    // seconds between full portfolio refreshes
	FetchTimeout    int    // seconds before a single market data fetch is abandoned
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabasePath:    getEnv("DATABASE_PATH", "./data/holdings.db"),
		StoreBackend:    getEnv("STORE_BACKEND", StoreSQLite),
		RemoteStoreURL:  getEnv("REMOTE_STORE_URL", "http://127.0.0.1:5001"),
		MarketDataURL:   getEnv("MARKET_DATA_URL", "http://127.0.0.1:5001"),
		RefreshInterval: getEnvAsInt("REFRESH_INTERVAL_SECONDS", 300),
		FetchTimeout:    getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite store backend")
		}
	case StoreRemote:
		if c.RemoteStoreURL == "" {
			return fmt.Errorf("REMOTE_STORE_URL is required for the remote store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %q or %q)", c.StoreBackend, StoreSQLite, StoreRemote)
	}

	if c.MarketDataURL == "" {
		return fmt.Errorf("MARKET_DATA_URL is required")
	}

	if c.RefreshInterval < 1 {
		return fmt.Errorf("REFRESH_INTERVAL_SECONDS must be positive, got %d", c.RefreshInterval)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
