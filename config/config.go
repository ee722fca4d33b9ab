package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL        = "https://api.nexusmods.com"
	DefaultUserAgent      = "modlist-manager/dev (unknown-user)"
	DefaultDatabasePath   = "modlists.db"
	DefaultRateLimit      = 25.0
	MaxRateLimit          = 30.0
	DefaultRequestTimeout = 10
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a .env file and/or environment variables.
type Config struct {
	NexusAPIKey    string  `mapstructure:"NEXUS_API_KEY"`
	NexusBaseURL   string  `mapstructure:"NEXUS_BASE_URL"`
	UserAgent      string  `mapstructure:"USERAGENT"`
	DatabasePath   string  `mapstructure:"DATABASE_PATH"`
	RateLimit      float64 `mapstructure:"RATE_LIMIT"`      // catalog requests per second during backfill
	RequestTimeout int     `mapstructure:"REQUEST_TIMEOUT"` // seconds
	LogFile        string  `mapstructure:"LOG_FILE"`
}

var envKeys = []string{
	"NEXUS_API_KEY",
	"NEXUS_BASE_URL",
	"USERAGENT",
	"DATABASE_PATH",
	"RATE_LIMIT",
	"REQUEST_TIMEOUT",
	"LOG_FILE",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)   // Path to look for the config file in
	v.SetConfigName(".env") // Name of config file (without extension)
	v.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); errors.As(err, &notFound) {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if err != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", err)
	}

	// Bind environment variables automatically.
	// Explicit binds make keys that only exist in the environment visible to Unmarshal.
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	// Unmarshal the config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// --- Post-unmarshal processing and defaults ---
	processConfigDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	// Create the database directory if it doesn't exist
	if err := ensureDatabaseDir(cfg.DatabasePath); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func processConfigDefaults(cfg *Config) {
	if cfg.NexusBaseURL == "" {
		cfg.NexusBaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabasePath
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit // Stays under the Nexus hourly quota
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
}

func validate(cfg *Config) error {
	if cfg.RateLimit < 1 || cfg.RateLimit > MaxRateLimit {
		return fmt.Errorf("RATE_LIMIT must be between 1 and %.0f requests per second, got %v", MaxRateLimit, cfg.RateLimit)
	}
	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %d", cfg.RequestTimeout)
	}
	return nil
}

func ensureDatabaseDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil // Current directory always exists
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Info("Database directory does not exist, creating it", "path", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory '%s': %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check database directory '%s': %w", dir, err)
	}
	return nil
}
