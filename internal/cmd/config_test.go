package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/shopfront/internal/config"
)

func TestGetNestedValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := config.Default()
	cfg.Storage.Redis.Password = "hunter2"

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "api.base_url", key: "api.base_url", want: "http://localhost:3005"},
		{name: "api.timeout", key: "api.timeout", want: "30s"},
		{name: "api.retry_max", key: "api.retry_max", want: "2"},
		{name: "storage.driver", key: "storage.driver", want: "file"},
		{name: "locale", key: "locale", want: "es"},
		{name: "tracing.enabled", key: "tracing.enabled", want: "false"},
		{name: "redis password is redacted", key: "storage.redis.password", want: redacted},
		{name: "unknown key", key: "unknown.key", wantErr: true},
		{name: "section is not a key", key: "api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getNestedValue(cfg, tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("getNestedValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("getNestedValue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetNestedValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(*config.Config) bool
		wantErr bool
	}{
		{
			name:  "set api.base_url",
			key:   "api.base_url",
			value: "https://shop.example.com",
			check: func(c *config.Config) bool {
				return c.API.BaseURL == "https://shop.example.com"
			},
		},
		{
			name:  "set api.retry_max keeps the int type",
			key:   "api.retry_max",
			value: "5",
			check: func(c *config.Config) bool {
				return c.API.RetryMax == 5
			},
		},
		{
			name:  "set tracing.enabled - true",
			key:   "tracing.enabled",
			value: "true",
			check: func(c *config.Config) bool {
				return c.Tracing.Enabled
			},
		},
		{
			name:  "set storage.driver",
			key:   "storage.driver",
			value: "memory",
			check: func(c *config.Config) bool {
				return c.Storage.Driver == "memory"
			},
		},
		{
			name:    "unknown key",
			key:     "unknown.key",
			value:   "value",
			wantErr: true,
		},
		{
			name:    "invalid int",
			key:     "api.retry_max",
			value:   "not-a-number",
			wantErr: true,
		},
		{
			name:    "value fails validation",
			key:     "storage.driver",
			value:   "floppy",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.yaml")

			err := setNestedValue(path, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("setNestedValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
					t.Error("a rejected value must not leave a config file behind")
				}
				return
			}

			cfg, err := config.Load(path, nil)
			if err != nil {
				t.Fatalf("config.Load() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("setNestedValue() did not set %s correctly", tt.key)
			}
		})
	}
}

func TestSetNestedValueKeepsOtherKeys(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := setNestedValue(path, "api.base_url", "https://a.example.com"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := setNestedValue(path, "api.timeout", "10s"); err != nil {
		t.Fatalf("second set: %v", err)
	}
	if err := setNestedValue(path, "api.retry_max", "-1"); err == nil {
		t.Fatal("negative retry_max should be rejected")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if doc["api"]["base_url"] != "https://a.example.com" {
		t.Errorf("base_url = %v", doc["api"]["base_url"])
	}
	if doc["api"]["timeout"] != "10s" {
		t.Errorf("timeout = %v", doc["api"]["timeout"])
	}
	if _, ok := doc["api"]["retry_max"]; ok {
		t.Error("rejected value should have been rolled back")
	}
}

func TestConfigViewRedactsSecrets(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := config.Default()
	cfg.Storage.Redis.Password = "hunter2"

	view := newConfigView(cfg)
	out := view.String()

	if strings.Contains(out, "hunter2") {
		t.Error("config view leaked the redis password")
	}
	if !strings.Contains(out, "storage.redis.password = "+redacted) {
		t.Errorf("expected redacted password in:\n%s", out)
	}
	if !strings.Contains(out, "none (defaults and environment)") {
		t.Errorf("expected no config file in:\n%s", out)
	}
	if view.Settings["api.base_url"] != "http://localhost:3005" {
		t.Errorf("unexpected base url %v", view.Settings["api.base_url"])
	}
}
