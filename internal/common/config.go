package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development production"`
	Server      ServerConfig    `toml:"server"`
	Content     ContentConfig   `toml:"content"`
	Search      SearchConfig    `toml:"search"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

// ContentConfig points at the flat-file substance corpus.
type ContentConfig struct {
	SubstancesDir string `toml:"substances_dir" validate:"required"` // Directory of per-substance JSON files
}

// SearchConfig contains configuration for search and cache behavior
type SearchConfig struct {
	CacheTTL     string `toml:"cache_ttl"`     // Freshness window, e.g. "30s"
	DefaultLimit int    `toml:"default_limit"` // Result limit when unspecified
	MaxLimit     int    `toml:"max_limit"`     // Hard cap on requested limits
}

// SchedulerConfig controls the background cache warmer
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Search scoring parameters (field weights, score cutoff) are deliberately
// hardcoded in the index; only operational settings are exposed here.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Content: ContentConfig{
			SubstancesDir: "./content/substances",
		},
		Search: SearchConfig{
			CacheTTL:     "30s",
			DefaultLimit: 200,
			MaxLimit:     500,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false, // Opt-in: rebuilds are cheap enough on demand
			Schedule: "*/1 * * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration in layers: defaults, then each config
// file in order (later files override earlier ones), then environment
// variables. The merged result is validated before being returned.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies TRUTHLIGHT_* environment variables on top of the
// file configuration.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRUTHLIGHT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("TRUTHLIGHT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TRUTHLIGHT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if dir := os.Getenv("TRUTHLIGHT_SUBSTANCES_DIR"); dir != "" {
		config.Content.SubstancesDir = dir
	}

	if ttl := os.Getenv("TRUTHLIGHT_SEARCH_CACHE_TTL"); ttl != "" {
		config.Search.CacheTTL = ttl
	}

	if level := os.Getenv("TRUTHLIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the merged configuration for shape errors before startup.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses the configured freshness window. Zero means "use the
// built-in default".
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Search.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Search.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid search.cache_ttl %q: %w", c.Search.CacheTTL, err)
	}
	return d, nil
}
