// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

// Default upstream endpoint templates. The user message is url-encoded
// and appended to the template verbatim.
const (
	defaultX1Endpoint = "https://api-aiassistant.eternalowner06.workers.dev/?prompt="
	defaultX2Endpoint = "https://deepseek.ytansh038.workers.dev/?question="
	defaultX3Endpoint = "https://api-gpt3-eternal.eternalowner06.workers.dev/?question="
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	// Endpoints maps each model identifier to its upstream endpoint
	// template. Overridable per model for local testing.
	Endpoints map[string]string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		Endpoints: map[string]string{
			domain.ModelX1: getEnv("X1_API_URL", defaultX1Endpoint),
			domain.ModelX2: getEnv("X2_API_URL", defaultX2Endpoint),
			domain.ModelX3: getEnv("X3_API_URL", defaultX3Endpoint),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	for _, model := range domain.Models {
		if c.Endpoints[model] == "" {
			return fmt.Errorf("endpoint for model %q cannot be empty", model)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env == "development"
	}
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
