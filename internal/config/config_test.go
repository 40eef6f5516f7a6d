package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("ADVANCE_DELAY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Port != "8085" {
		t.Errorf("Port = %q, want 8085", cfg.Port)
	}
	if cfg.StorageDriver != "sqlite" {
		t.Errorf("StorageDriver = %q, want sqlite", cfg.StorageDriver)
	}
	if cfg.AdvanceDelay != 2500*time.Millisecond {
		t.Errorf("AdvanceDelay = %v, want 2.5s", cfg.AdvanceDelay)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "closedai")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestLoadConfigPostgresRequiresDSN(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_DSN", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error when postgres has no DSN")
	}

	t.Setenv("STORAGE_DSN", "host=localhost user=postgres")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.StorageDriver != "postgres" {
		t.Errorf("StorageDriver = %q, want postgres", cfg.StorageDriver)
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("ADVANCE_DELAY", "1s")
	t.Setenv("EXPORT_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AdvanceDelay != time.Second {
		t.Errorf("AdvanceDelay = %v, want 1s", cfg.AdvanceDelay)
	}
	if cfg.ExportEnabled {
		t.Error("ExportEnabled should be false")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}
