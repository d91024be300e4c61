package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filerename/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.Concurrency, 0)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, domain.CollisionFail, cfg.CollisionStrategy())
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, int64(0), cfg.EnumerationStart)
	assert.Equal(t, 1, cfg.MaxDepth())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
concurrency: 3
log_level: debug
collision: enumerate
enumeration_start: 1
recursive: true
timeout: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, domain.CollisionEnumerate, cfg.CollisionStrategy())
	assert.Equal(t, int64(1), cfg.EnumerationStart)
	assert.Equal(t, 0, cfg.MaxDepth())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries, "unset keys keep defaults")
	assert.False(t, cfg.Copy)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: [oops"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/filerename.yaml")
	assert.Equal(t, "/etc/filerename.yaml", ConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath, ConfigPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, false},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -5 }, true},
		{"negative enumeration start", func(c *Config) { c.EnumerationStart = -1 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"unknown collision", func(c *Config) { c.Collision = "overwrite" }, true},
		{"lowercase collision", func(c *Config) { c.Collision = "enumerate" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
