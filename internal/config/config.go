// Package config exposes strongly typed application configuration structs
// loaded from YAML with environment overrides. Strategy parameters and
// position limits are deliberately absent: those are frozen constants baked
// into the strategy catalog.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Feed selects where tick snapshots come from.
type Feed struct {
	Provider string `yaml:"provider"` // "stdin" or "websocket"
	URL      string `yaml:"url"`
}

// Store configures the optional SQLite tick trace store.
type Store struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Record configures the optional JSONL decision recorder.
type Record struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Diag configures the budget-bounded diagnostics record.
type Diag struct {
	MaxLength int  `yaml:"max_length"`
	Exact     bool `yaml:"exact"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App    App    `yaml:"app"`
	Feed   Feed   `yaml:"feed"`
	Store  Store  `yaml:"store"`
	Record Record `yaml:"record"`
	Diag   Diag   `yaml:"diag"`
}

// Env holds process environment overrides, loaded after any .env file.
type Env struct {
	ConfigPath string `envconfig:"CONFIG_PATH" default:"internal/config/config.yaml"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

// FromEnv reads the optional .env file and then the process environment.
// A missing .env is not an error.
func FromEnv() (*Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &env, nil
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.MetricsAddr == "" {
		c.App.MetricsAddr = ":9109"
	}
	if c.Feed.Provider == "" {
		c.Feed.Provider = "stdin"
	}
	if c.Diag.MaxLength == 0 {
		c.Diag.MaxLength = 3750
		c.Diag.Exact = true
	}
}
