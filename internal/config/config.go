// Package config loads shopfront settings from defaults, an optional YAML
// file, SHOPFRONT_* environment variables and command-line overrides, in
// increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g.
// SHOPFRONT_API_BASE_URL for api.base_url.
const EnvPrefix = "SHOPFRONT"

// Config holds all client configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Locale  string        `mapstructure:"locale"`
	Output  string        `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
	RetryWaitMin   time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax   time.Duration `mapstructure:"retry_wait_max"`
	StrictContract bool          `mapstructure:"strict_contract"`
}

// StorageConfig selects where persisted client state lives
type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings for the redis storage driver
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	Namespace   string        `mapstructure:"namespace"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// TracingConfig controls OpenTelemetry span export
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// StorageOptions converts the storage section into storage.Options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:        c.Storage.Driver,
		Path:          c.Storage.Path,
		RedisAddr:     c.Storage.Redis.Addr,
		RedisPassword: c.Storage.Redis.Password,
		RedisDB:       c.Storage.Redis.DB,
		Namespace:     c.Storage.Redis.Namespace,
		DialTimeout:   c.Storage.Redis.DialTimeout,
	}
}

// Dir returns the shopfront configuration directory
// ($XDG_CONFIG_HOME/shopfront, falling back to ~/.config/shopfront).
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shopfront")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopfront"
	}
	return filepath.Join(home, ".config", "shopfront")
}

// DefaultFile is the config file read when no explicit path is given.
func DefaultFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads configuration. path may be empty, in which case DefaultFile is
// used if it exists. overrides are applied last, keyed by dotted name
// (e.g. "api.base_url"); empty string values are ignored so that unset
// flags do not mask the file or environment.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing default file is fine; a missing explicit one is not.
	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	file := ""
	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("failed to read config file %s", path), err).
				WithSuggestion("Check the --config path or remove the file to use defaults")
		}
		file = path
	}

	for key, value := range overrides {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to decode configuration", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:3005")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.retry_max", 2)
	v.SetDefault("api.retry_wait_min", "200ms")
	v.SetDefault("api.retry_wait_max", "2s")
	v.SetDefault("api.strict_contract", false)

	// Storage defaults
	v.SetDefault("storage.driver", storage.DriverFile)
	v.SetDefault("storage.path", filepath.Join(Dir(), "state.yaml"))
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.namespace", "shopfront")
	v.SetDefault("storage.redis.dial_timeout", "5s")

	// Logging defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("locale", "es")
	v.SetDefault("output", "text")
	v.SetDefault("metrics.textfile", "")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_rate", 1.0)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewConfigInvalidError(fmt.Sprintf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewConfigInvalidError(fmt.Sprintf("api.base_url scheme must be http or https, got %q", u.Scheme))
	}
	if c.API.Timeout < 0 {
		return errors.NewConfigInvalidError("api.timeout must not be negative")
	}
	if c.API.RetryMax < 0 {
		return errors.NewConfigInvalidError("api.retry_max must not be negative")
	}

	switch c.Storage.Driver {
	case storage.DriverFile:
		if c.Storage.Path == "" {
			return errors.NewConfigInvalidError("storage.path is required for the file driver")
		}
	case storage.DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.NewConfigInvalidError("storage.redis.addr is required for the redis driver")
		}
	case storage.DriverMemory:
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("unknown storage.driver %q (want file, redis or memory)", c.Storage.Driver))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.NewConfigInvalidError("tracing.sample_rate must be between 0 and 1")
	}

	switch c.Locale {
	case "es", "en":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("unsupported locale %q (want es or en)", c.Locale))
	}

	switch c.Output {
	case "text", "json", "yaml":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("unsupported output format %q", c.Output))
	}

	return nil
}
