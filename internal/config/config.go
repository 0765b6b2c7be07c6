package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	API         APIConfig
	Practice    PracticeConfig
	Database    DatabaseConfig
}

// APIConfig holds backend API settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PracticeConfig holds practice-queue tuning
type PracticeConfig struct {
	FetchLimit        int
	FetchThreshold    int
	NarrationInterval time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	apiTimeout, err := getDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	narrationInterval, err := getDuration("NARRATION_INTERVAL", 4*time.Second)
	if err != nil {
		return nil, err
	}
	fetchLimit, err := getInt("FETCH_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	fetchThreshold, err := getInt("FETCH_THRESHOLD", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		API: APIConfig{
			BaseURL: os.Getenv("API_BASE_URL"),
			Timeout: apiTimeout,
		},
		Practice: PracticeConfig{
			FetchLimit:        fetchLimit,
			FetchThreshold:    fetchThreshold,
			NarrationInterval: narrationInterval,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "franca"),
			User:     getEnv("DB_USER", "franca"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Practice.FetchLimit < 1 {
		return nil, fmt.Errorf("FETCH_LIMIT must be positive")
	}
	if cfg.Practice.FetchThreshold < 0 || cfg.Practice.FetchThreshold >= cfg.Practice.FetchLimit {
		return nil, fmt.Errorf("FETCH_THRESHOLD must be between 0 and FETCH_LIMIT")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
