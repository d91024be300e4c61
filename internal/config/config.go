package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"filerename/internal/domain"
	"filerename/internal/logger"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "FILERENAME_CONFIG"

// DefaultConfigPath is used when EnvConfigPath is unset
const DefaultConfigPath = "~/.config/filerename/config.yaml"

// DefaultMaxRetries caps collision retries under the enumerate strategy
const DefaultMaxRetries = 1000

// Config holds the settings shared by every rename task of one run
type Config struct {
	Concurrency      int           `yaml:"concurrency"` // jobs running at once
	LogLevel         string        `yaml:"log_level"`
	Collision        string        `yaml:"collision"` // FAIL or ENUMERATE
	MaxRetries       int           `yaml:"max_retries"`
	EnumerationStart int64         `yaml:"enumeration_start"`
	Recursive        bool          `yaml:"recursive"`
	Copy             bool          `yaml:"copy"`
	Timeout          time.Duration `yaml:"timeout"`
	LockDir          string        `yaml:"lock_dir"` // empty means the OS temp dir
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Concurrency: runtime.GOMAXPROCS(0),
		LogLevel:    "info",
		Collision:   domain.CollisionFail.String(),
		MaxRetries:  DefaultMaxRetries,
	}
}

// ConfigPath returns the config path from the FILERENAME_CONFIG env var,
// falling back to DefaultConfigPath.
func ConfigPath() string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultConfigPath
}

// LoadConfig reads a YAML config file over the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.EnumerationStart < 0 {
		return fmt.Errorf("enumeration_start must be >= 0, got %d", c.EnumerationStart)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}
	if c.LogLevel != "" && !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (valid: %v)", c.LogLevel, logger.ValidLevels)
	}
	if _, err := domain.ParseCollisionStrategy(c.Collision); err != nil {
		return fmt.Errorf("invalid collision: %w", err)
	}
	return nil
}

// CollisionStrategy returns the parsed collision strategy
func (c *Config) CollisionStrategy() domain.CollisionStrategy {
	s, err := domain.ParseCollisionStrategy(c.Collision)
	if err != nil {
		return domain.CollisionFail
	}
	return s
}

// MaxDepth converts the recursive flag into a walker depth
func (c *Config) MaxDepth() int {
	if c.Recursive {
		return 0
	}
	return 1
}

func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
