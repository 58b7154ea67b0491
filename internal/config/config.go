package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "pulpe.yaml"

// Environment variables that override the file.
const (
	EnvAPIURL   = "PULPE_API_URL"
	EnvAPIToken = "PULPE_API_TOKEN"
	EnvOwnerID  = "PULPE_OWNER_ID"
	EnvLogLevel = "PULPE_LOG_LEVEL"
)

// Config represents the top-level pulpe.yaml configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Budget  BudgetConfig  `yaml:"budget"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig locates the bulk-operations API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Token     string        `yaml:"token,omitempty"` // prefer PULPE_API_TOKEN
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit int           `yaml:"rate_limit"` // requests per second
}

// BudgetConfig names the collection being edited.
type BudgetConfig struct {
	OwnerID    string `yaml:"owner_id"`
	Collection string `yaml:"collection"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a pulpe.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
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

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			RateLimit: 5,
		},
		Budget: BudgetConfig{
			Collection: "budgets",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with the PULPE_* variables found through lookup.
// A nil lookup means os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.API.BaseURL, EnvAPIURL)
	set(&c.API.Token, EnvAPIToken)
	set(&c.Budget.OwnerID, EnvOwnerID)
	set(&c.Logging.Level, EnvLogLevel)
}

// Offline reports whether no API is configured.
func (c *Config) Offline() bool {
	return strings.TrimSpace(c.API.BaseURL) == ""
}
