package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken string
	DatabaseURL   string
	LogLevel      string
	Port          string
}

// Load loads configuration from the environment, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		Port:     getEnvOrDefault("PORT", "8080"),
	}

	if cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN"); cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
