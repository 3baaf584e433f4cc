// Package config loads service configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables.
type Config struct {
	Port    string
	GinMode string
	DevMode bool

	// Search-results provider; the external resolver stage is disabled
	// when the endpoint or key is empty.
	SERPEndpoint string
	SERPAPIKey   string
	SERPMarket   string
	SERPLanguage string

	// Ranking-history database; the internal resolver stage is disabled
	// when empty.
	DatabaseURL string

	// Statistics persistence.
	DataDir string

	// Rate limiting.
	RateLimitRPS   float64
	RateLimitBurst float64
}

// Load reads .env files if present, then configuration from environment
// variables with sensible defaults.
func Load() *Config {
	// .env.development wins for local development, plain .env otherwise.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8082"),
		GinMode:        getEnv("GIN_MODE", ""),
		DevMode:        getEnv("DEV_MODE", "") == "true",
		SERPEndpoint:   getEnv("SERP_ENDPOINT", "https://google.serper.dev/search"),
		SERPAPIKey:     getEnv("SERP_API_KEY", ""),
		SERPMarket:     getEnv("SERP_MARKET", "vn"),
		SERPLanguage:   getEnv("SERP_LANGUAGE", "vi"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DataDir:        getEnv("DATA_DIR", "data"),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getFloat("RATE_LIMIT_BURST", 5),
	}
}

// SERPConfigured reports whether the external provider stage can run.
func (c *Config) SERPConfigured() bool {
	return c.SERPEndpoint != "" && c.SERPAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
