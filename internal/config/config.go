package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/potmover/potmover/internal/money"
	"github.com/potmover/potmover/internal/storage"
)

// FileName is the default config file name.
const FileName = "potmover.yaml"

// Environment variables that override file settings.
const (
	EnvDataDir  = "POTMOVER_DATA_DIR"
	EnvLogLevel = "POTMOVER_LOG_LEVEL"
	EnvCurrency = "POTMOVER_CURRENCY"
)

// Config represents the top-level potmover.yaml configuration.
type Config struct {
	DataDir     string    `yaml:"data_dir"`
	StorageKey  string    `yaml:"storage_key"`
	Currency    string    `yaml:"currency"`
	SeedHistory bool      `yaml:"seed_history"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Load reads a potmover.yaml file from disk. A relative data_dir is
// resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		DataDir:     "data",
		StorageKey:  storage.DefaultKey,
		Currency:    money.DefaultCurrency,
		SeedHistory: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if _, ok := money.LookupCurrency(c.Currency); !ok {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv loads envFile (if present) into the process environment and
// applies POTMOVER_* overrides. Variables already set win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvCurrency); ok && v != "" {
		c.Currency = strings.ToUpper(v)
	}
	return c.Validate()
}
