package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	apperrors "patterngraph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Graph
	GraphPath string

	// AI
	LiteLLMURL       string
	ModelID          string
	EmbeddingModelID string
	OpenRouterAPIKey string

	// Competitor intelligence
	IntelDocsDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		GraphPath:        getEnv("GRAPH_PATH", "data/case_studies_graph.json"),
		LiteLLMURL:       getEnv("LITELLM_URL", "http://localhost:4000"),
		ModelID:          getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		EmbeddingModelID: getEnv("EMBEDDING_MODEL_ID", "text-embedding-3-small"),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		IntelDocsDir:     getEnv("INTEL_DOCS_DIR", "data/competitor_reports"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.GraphPath == "" {
		return apperrors.NewConfigMissingRequired("GRAPH_PATH")
	}
	if c.LiteLLMURL == "" {
		return apperrors.NewConfigMissingRequired("LITELLM_URL")
	}
	if c.ModelID == "" {
		return apperrors.NewConfigMissingRequired("MODEL_ID")
	}
	if c.EmbeddingModelID == "" {
		return apperrors.NewConfigMissingRequired("EMBEDDING_MODEL_ID")
	}
	// API key and intel docs directory are optional for development
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
