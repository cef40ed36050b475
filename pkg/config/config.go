package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
)

// Config holds all application configuration.
type Config struct {
	// App
	Port string
	Env  string

	// AI
	OpenAIAPIKey  string
	OpenAIBaseURL string // empty means the public OpenAI endpoint
	ModelID       string // conversation model
	SearchModelID string // model handed to tools for their own completions

	// Mail (optional; mail mode is unavailable without these)
	IMAPAddr     string // host:port, e.g. imap.example.com:993
	IMAPUsername string
	IMAPPassword string

	// Spotify (optional; playlist creation fails without a token)
	SpotifyToken string

	// ProfilesPath points to an optional YAML file overriding assistant
	// system prompts and group sets.
	ProfilesPath string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		ModelID:       getEnv("MODEL_ID", "gpt-4o-mini"),
		SearchModelID: getEnv("SEARCH_MODEL_ID", "gpt-4o-mini"),
		IMAPAddr:      getEnv("IMAP_ADDR", ""),
		IMAPUsername:  getEnv("IMAP_USERNAME", ""),
		IMAPPassword:  getEnv("IMAP_PASSWORD", ""),
		SpotifyToken:  getEnv("SPOTIFY_TOKEN", ""),
		ProfilesPath:  getEnv("ASSISTANT_PROFILES", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return apperrors.NewConfigMissingRequired("OPENAI_API_KEY")
	}
	if c.ModelID == "" {
		return apperrors.NewConfigMissingRequired("MODEL_ID")
	}
	if c.SearchModelID == "" {
		return apperrors.NewConfigMissingRequired("SEARCH_MODEL_ID")
	}
	// Mail and Spotify credentials are optional; the tools that need them
	// degrade at runtime instead of blocking startup.
	return nil
}

// MailConfigured reports whether the IMAP credentials needed by mail mode
// are all present.
func (c *Config) MailConfigured() bool {
	return c.IMAPAddr != "" && c.IMAPUsername != "" && c.IMAPPassword != ""
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
