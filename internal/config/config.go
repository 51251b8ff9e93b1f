// Package config loads settings from a YAML file, an optional .env file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Generator GeneratorConfig `yaml:"generator"`
	Reports   ReportsConfig   `yaml:"reports"`
	Web       WebConfig       `yaml:"web"`
	Logging   LoggingConfig   `yaml:"logging"`
	Update    UpdateConfig    `yaml:"update"`
}

// GeneratorConfig selects the generative provider.
type GeneratorConfig struct {
	Provider string `yaml:"provider"` // gemini or none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// ReportsConfig selects where community reports are kept.
type ReportsConfig struct {
	Mode   string `yaml:"mode"`   // local or remote
	Driver string `yaml:"driver"` // postgres or sqlite
	DSN    string `yaml:"dsn"`
	Limit  int    `yaml:"limit"`
}

// WebConfig configures the HTTP API.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// UpdateConfig names the GitHub repository releases are checked against.
// There is no default.
type UpdateConfig struct {
	Owner      string `yaml:"owner"`
	Repository string `yaml:"repository"`
}

// Configured reports whether both owner and repository are set.
func (u UpdateConfig) Configured() bool {
	return strings.TrimSpace(u.Owner) != "" && strings.TrimSpace(u.Repository) != ""
}

const (
	ProviderGemini = "gemini"
	ProviderNone   = "none"

	ReportsLocal  = "local"
	ReportsRemote = "remote"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Generator: GeneratorConfig{
			Provider: ProviderGemini,
			Model:    "gemini-3-flash-preview",
			Timeout:  "30s",
		},
		Reports: ReportsConfig{
			Mode:   ReportsLocal,
			Driver: DriverPostgres,
			Limit:  50,
		},
		Web: WebConfig{Addr: ":8080"},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".purity"
	}
	return filepath.Join(home, ".purity")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// Load reads the YAML file at path (defaults if it does not exist), loads
// envFiles into the environment without overriding variables already set,
// applies environment overrides and validates the result.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API_KEY is the name the hosted build used; GEMINI_API_KEY wins.
	if key := os.Getenv("API_KEY"); key != "" {
		c.Generator.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Generator.APIKey = key
	}
	if dir := os.Getenv("PURITY_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if mode := os.Getenv("PURITY_REPORTS_MODE"); mode != "" {
		c.Reports.Mode = mode
	}
	if dsn := os.Getenv("PURITY_REPORTS_DSN"); dsn != "" {
		c.Reports.DSN = dsn
	}
	if level := os.Getenv("PURITY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks enumerations and required combinations.
func (c *Config) Validate() error {
	c.Reports.Mode = strings.ToLower(strings.TrimSpace(c.Reports.Mode))
	c.Reports.Driver = strings.ToLower(strings.TrimSpace(c.Reports.Driver))
	c.Generator.Provider = strings.ToLower(strings.TrimSpace(c.Generator.Provider))

	var errs []error
	switch c.Generator.Provider {
	case "", ProviderGemini, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown generator provider %q", c.Generator.Provider))
	}
	if _, err := c.GeneratorTimeout(); err != nil {
		errs = append(errs, err)
	}

	switch c.Reports.Mode {
	case ReportsLocal:
	case ReportsRemote:
		if c.Reports.DSN == "" {
			errs = append(errs, errors.New("reports.dsn is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown reports mode %q", c.Reports.Mode))
	}
	switch c.Reports.Driver {
	case "", DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown reports driver %q", c.Reports.Driver))
	}
	if c.Reports.Limit < 0 {
		errs = append(errs, errors.New("reports.limit must not be negative"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GeneratorTimeout parses Generator.Timeout. Bare numbers are seconds.
func (c *Config) GeneratorTimeout() (time.Duration, error) {
	t := strings.TrimSpace(c.Generator.Timeout)
	if t == "" {
		return 30 * time.Second, nil
	}
	if n, err := strconv.Atoi(t); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(t)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid generator timeout %q", c.Generator.Timeout)
	}
	return d, nil
}

// GeneratorEnabled reports whether a real provider should be used.
func (c *Config) GeneratorEnabled() bool {
	return c.Generator.Provider != ProviderNone && c.Generator.APIKey != ""
}

// StoragePath is the local SQLite database file.
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "purity.db")
}

// LogPath is where the TUI logs when no file is configured.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.DataDir, "purity.log")
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
