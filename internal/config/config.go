package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"os"
)

// Config is the full server configuration, loaded from the environment.
type Config struct {
	Provider string
	Port     string

	// Storage
	StorageDriver string
	StorageDSN    string

	// Interview flow
	AdvanceDelay time.Duration
	FlowTTL      time.Duration

	// Session export job
	ExportEnabled  bool
	ExportSchedule string
	ExportDir      string

	CORSOrigins []string
}

// LoadConfig reads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		Port:           getEnvOrDefault("PORT", "8085"),
		StorageDriver:  getEnvOrDefault("STORAGE_DRIVER", "sqlite"),
		StorageDSN:     os.Getenv("STORAGE_DSN"),
		AdvanceDelay:   getEnvDuration("ADVANCE_DELAY", 2500*time.Millisecond),
		FlowTTL:        getEnvDuration("FLOW_TTL", time.Hour),
		ExportEnabled:  getEnvBool("EXPORT_ENABLED", true),
		ExportSchedule: getEnvOrDefault("EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:      getEnvOrDefault("EXPORT_DIR", "./exports"),
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.StorageDriver != "sqlite" && config.StorageDriver != "postgres" {
		return errors.New("unsupported storage driver: " + config.StorageDriver + ". Currently supported: sqlite, postgres")
	}
	if config.StorageDriver == "postgres" && config.StorageDSN == "" {
		return errors.New("STORAGE_DSN is required for the postgres driver")
	}
	if config.AdvanceDelay < 0 {
		return errors.New("ADVANCE_DELAY must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
