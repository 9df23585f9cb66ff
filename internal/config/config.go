package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// DefaultDataFile is looked up relative to the working directory.
const DefaultDataFile = "transactions.csv"

// Config represents the txanalyser.yaml configuration.
type Config struct {
	DataFile    string    `yaml:"data_file"              env:"TXANALYSER_DATA_FILE"`
	MetricsFile string    `yaml:"metrics_file,omitempty" env:"TXANALYSER_METRICS_FILE"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig controls logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level"  env:"TXANALYSER_LOG_LEVEL"`  // debug, info, warn, error
	Format string `yaml:"format" env:"TXANALYSER_LOG_FORMAT"` // console, json
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and finally TXANALYSER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
