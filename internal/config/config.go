package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration sourced from the environment.
type Config struct {
	Port           string
	PostgresDSN    string
	UseMemory      bool
	MidgardBaseURL string
	Pool           string
	SyncInterval   time.Duration
	WindowSize     int64
}

// Load reads configuration from a .env file (when present) and the
// environment, falling back to defaults.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		UseMemory:      getEnvBool("USE_MEMORY", false),
		MidgardBaseURL: getEnv("MIDGARD_BASE_URL", ""),
		Pool:           getEnv("POOL", "BTC.BTC"),
		SyncInterval:   getEnvDuration("SYNC_INTERVAL", time.Hour),
		WindowSize:     getEnvInt64("WINDOW_SIZE", 400),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}
