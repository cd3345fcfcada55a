package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	endpoint := os.Getenv("TASKBOARD_API_ENDPOINT")
	tokenPath := os.Getenv("TASKBOARD_TOKEN_FILE")
	environment := os.Getenv("TASKBOARD_ENV")
	rateLimit := os.Getenv("TASKBOARD_RATE_LIMIT")

	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("TASKBOARD_TOKEN_FILE not set and home directory unavailable: %w", err)
		}

		tokenPath = filepath.Join(home, ".taskboard", "tokens.json")
	}

	if environment == "" {
		environment = "development"
	}

	// outbound requests per second, 0 disables client-side throttling
	rate := 10.0

	if rateLimit != "" {
		parsed, err := strconv.ParseFloat(rateLimit, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("TASKBOARD_RATE_LIMIT must be a non-negative number, got %q", rateLimit)
		}

		rate = parsed
	}

	return &Config{
		APIEndpoint: endpoint,
		TokenPath:   tokenPath,
		Environment: environment,
		RequestRate: rate,
	}, nil
}
