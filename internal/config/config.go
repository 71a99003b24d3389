package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port             string
	DatabaseURL      string
	MigrateOnStart   bool
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	JWTSecret        string
	JWTIssuer        string
	CorsOrigins      []string
	StaticDir        string
	LogDir           string
	LogLevel         string
	LogRetentionDays int
}

// Load reads the environment. Only DATABASE_URL is mandatory; an empty
// OPENAI_API_KEY selects mock mode for assistant runs.
func Load() (Config, error) {
	cfg := Config{
		Port:             envOr("PORT", "3000"),
		DatabaseURL:      envOr("DATABASE_URL", ""),
		MigrateOnStart:   envOrBool("MIGRATE_ON_START", true),
		OpenAIAPIKey:     envOr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    envOr("OPENAI_BASE_URL", ""),
		OpenAIModel:      envOr("OPENAI_MODEL", "gpt-4o"),
		JWTSecret:        envOr("AUTH_JWT_SECRET", ""),
		JWTIssuer:        envOr("AUTH_JWT_ISSUER", "viralhub"),
		CorsOrigins:      parseCSV(envOr("CORS_ORIGINS", "")),
		StaticDir:        envOr("STATIC_DIR", "dist/public"),
		LogDir:           envOr("LOG_DIR", "storage/logs"),
		LogLevel:         strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogRetentionDays: clamp(envOrInt("LOG_RETENTION_DAYS", 7), 1, 7),
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("missing env var: DATABASE_URL")
	}
	return cfg, nil
}

// MockMode reports whether assistant runs answer without a provider.
func (c Config) MockMode() bool {
	return c.OpenAIAPIKey == ""
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
