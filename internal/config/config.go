// Package config loads application configuration from an optional YAML file
// with environment overrides. A .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	FX       FXConfig       `yaml:"fx"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig configures batch persistence.
type StorageConfig struct {
	BadgerPath string `yaml:"badger_path"`
}

// FXConfig configures the exchange rate source.
type FXConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PipelineConfig names the spreadsheet columns and sets the cleaning flags.
type PipelineConfig struct {
	TimestampColumn     string `yaml:"timestamp_column"`
	CurrencyColumn      string `yaml:"currency_column"`
	PaymentMethodColumn string `yaml:"payment_method_column"`
	AmountColumn        string `yaml:"amount_column"`
	IDColumn            string `yaml:"id_column"`
	UserColumn          string `yaml:"user_column"`
	DefaultTimeZone     string `yaml:"default_timezone"`
	DayFirst            bool   `yaml:"day_first"`
	Strict              bool   `yaml:"strict"`
	RefreshRates        bool   `yaml:"refresh_rates"`
	Align               bool   `yaml:"align"`
}

// Default returns the configuration used when no file or overrides are
// present. Column names match the transaction workbook layout.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{BadgerPath: "./data"},
		FX:      FXConfig{TimeoutSeconds: 10},
		Pipeline: PipelineConfig{
			TimestampColumn:     "timestamp",
			CurrencyColumn:      "currency",
			PaymentMethodColumn: "payment_method",
			AmountColumn:        "amount",
			IDColumn:            "transaction_id",
			UserColumn:          "user_id",
			DefaultTimeZone:     "UTC",
			DayFirst:            true,
			RefreshRates:        true,
			Align:               true,
		},
	}
}

// Load reads configuration from an optional YAML file path, then applies
// environment overrides (FX_API_KEY, FX_BASE_URL, PORT, BADGER_PATH).
func Load(path string) (Config, error) {
	// Load .env for local dev; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("FX_API_KEY"); v != "" {
		cfg.FX.APIKey = v
	}
	if v := os.Getenv("FX_BASE_URL"); v != "" {
		cfg.FX.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("BADGER_PATH"); v != "" {
		cfg.Storage.BadgerPath = v
	}

	return cfg, nil
}
