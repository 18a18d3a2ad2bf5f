package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3005", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2, cfg.API.RetryMax)
	assert.Equal(t, storage.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dir, "shopfront", "state.yaml"), cfg.Storage.Path)
	assert.Equal(t, "es", cfg.Locale)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadDefaultFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shopfront"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shopfront", "config.yaml"), []byte(`
api:
  base_url: https://shop.example.com
  timeout: 5s
locale: en
`), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, DefaultFile(), cfg.File)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file:1\noutput: yaml\n"), 0o600))

	t.Setenv("SHOPFRONT_API_BASE_URL", "http://env:2")
	t.Setenv("SHOPFRONT_STORAGE_DRIVER", "memory")

	cfg, err := Load(path, map[string]any{"output": "json", "locale": ""})
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.API.BaseURL, "env beats file")
	assert.Equal(t, "json", cfg.Output, "override beats file")
	assert.Equal(t, "es", cfg.Locale, "empty override ignored")
	assert.Equal(t, storage.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, path, cfg.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:3005" }},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"negative retries", func(c *Config) { c.API.RetryMax = -1 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"file without path", func(c *Config) { c.Storage.Path = "" }},
		{"redis without addr", func(c *Config) { c.Storage.Driver = storage.DriverRedis; c.Storage.Redis.Addr = "" }},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
		{"locale", func(c *Config) { c.Locale = "fr" }},
		{"output", func(c *Config) { c.Output = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
		})
	}
}

func TestStorageOptions(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Storage.Driver = storage.DriverRedis
	cfg.Storage.Redis.Addr = "redis:6379"
	cfg.Storage.Redis.DB = 3

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.DriverRedis, opts.Driver)
	assert.Equal(t, "redis:6379", opts.RedisAddr)
	assert.Equal(t, 3, opts.RedisDB)
	assert.Equal(t, "shopfront", opts.Namespace)
}
