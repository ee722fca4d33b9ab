package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.NexusBaseURL != DefaultBaseURL {
			t.Errorf("Expected NexusBaseURL to be %s, got %s", DefaultBaseURL, cfg.NexusBaseURL)
		}
		if cfg.DatabasePath != DefaultDatabasePath {
			t.Errorf("Expected DatabasePath to be %s, got %s", DefaultDatabasePath, cfg.DatabasePath)
		}
		if cfg.RateLimit != DefaultRateLimit {
			t.Errorf("Expected RateLimit to be %v, got %v", DefaultRateLimit, cfg.RateLimit)
		}
		if cfg.RequestTimeout != DefaultRequestTimeout {
			t.Errorf("Expected RequestTimeout to be %d, got %d", DefaultRequestTimeout, cfg.RequestTimeout)
		}
		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		cfg := Config{
			NexusBaseURL: "http://localhost:9999",
			UserAgent:    "custom-agent",
			DatabasePath: "/tmp/x.db",
			RateLimit:    5,
		}
		processConfigDefaults(&cfg)

		if cfg.NexusBaseURL != "http://localhost:9999" {
			t.Errorf("Expected NexusBaseURL to stay, got %s", cfg.NexusBaseURL)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to stay custom-agent, got %s", cfg.UserAgent)
		}
		if cfg.RateLimit != 5 {
			t.Errorf("Expected RateLimit to stay 5, got %v", cfg.RateLimit)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults are valid", Config{RateLimit: DefaultRateLimit, RequestTimeout: 10}, false},
		{"rate limit too high", Config{RateLimit: 100, RequestTimeout: 10}, true},
		{"rate limit too low", Config{RateLimit: 0.5, RequestTimeout: 10}, true},
		{"negative timeout", Config{RateLimit: 10, RequestTimeout: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data", "modlists.db")
	content := "NEXUS_API_KEY=secret-key\nRATE_LIMIT=12\nDATABASE_PATH=" + dbPath + "\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.NexusAPIKey != "secret-key" {
		t.Errorf("Expected NexusAPIKey secret-key, got %q", cfg.NexusAPIKey)
	}
	if cfg.RateLimit != 12 {
		t.Errorf("Expected RateLimit 12, got %v", cfg.RateLimit)
	}
	if cfg.DatabasePath != dbPath {
		t.Errorf("Expected DatabasePath %s, got %s", dbPath, cfg.DatabasePath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Expected database directory to be created")
	}
}
