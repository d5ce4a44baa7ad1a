package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the engine.
type AppConfig struct {
	DatabaseURL      string
	TelegramToken    string
	NotifyChatID     int64 // chat receiving quote notifications
	LogLevel         string
	Environment      string
	CronSpecDelivery string // cadence of the delivery trigger
	Timezone         string
	Location         *time.Location
	CacheCapacity    int
}

// Load reads configuration from environment variables and .env file
// (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't
	// exist; godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDStr := os.Getenv("NOTIFY_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("NOTIFY_CHAT_ID is not set")
	}
	cfg.NotifyChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_CHAT_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecDelivery = os.Getenv("CRON_SPEC_DELIVERY")
	if cfg.CronSpecDelivery == "" {
		// Hourly on the hour: readiness tolerates the coarse cadence.
		cfg.CronSpecDelivery = "0 * * * *"
	}

	cfg.Timezone = os.Getenv("TIMEZONE")
	if cfg.Timezone == "" {
		cfg.Location = time.Local
	} else {
		cfg.Location, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
		}
	}

	capacityStr := os.Getenv("CACHE_CAPACITY")
	if capacityStr == "" {
		cfg.CacheCapacity = 50
	} else {
		cfg.CacheCapacity, err = strconv.Atoi(capacityStr)
		if err != nil || cfg.CacheCapacity <= 0 {
			return nil, fmt.Errorf("invalid CACHE_CAPACITY %q", capacityStr)
		}
	}

	return cfg, nil
}
