package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/shopfront/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "development config", config: DevelopmentConfig()},
		{name: "discard config", config: Discard()},
		{name: "nil output falls back", config: Config{Level: LevelInfo, Format: FormatJSON}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil || logger.slog == nil {
				t.Fatal("expected logger, got nil")
			}
			if logger.Config().Level != tt.config.Level {
				t.Errorf("expected level %v, got %v", tt.config.Level, logger.Config().Level)
			}
		})
	}
}

func TestJSONOutputIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf, Component: "shopfront"})

	logger.Info("products fetched", "page", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}
	if record["component"] != "shopfront" {
		t.Errorf("expected component attribute, got %v", record["component"])
	}
	if record["msg"] != "products fetched" {
		t.Errorf("unexpected msg %v", record["msg"])
	}
	if record["page"] != float64(2) {
		t.Errorf("unexpected page %v", record["page"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info records leaked: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error level should be enabled")
	}
}

func TestWithErrorShopError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	err := errors.New(errors.ErrCodeSessionExpired, "session expired").WithRequest("/auth/me", 401, "req-42")
	logger.WithError(err).Warn("current user rejected")

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("invalid JSON: %v", jsonErr)
	}
	if record["error_code"] != "AUTH-002" {
		t.Errorf("expected error_code AUTH-002, got %v", record["error_code"])
	}
	if record["request_id"] != "req-42" {
		t.Errorf("expected request_id, got %v", record["request_id"])
	}
	if record["status"] != float64(401) {
		t.Errorf("expected status 401, got %v", record["status"])
	}
}

func TestWithErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatText, Output: &buf})

	logger.WithError(fmt.Errorf("disk full")).Error("write failed")
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected plain error text, got %q", buf.String())
	}

	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatText, Output: &buf})

	logger.LogError(context.Background(), "favorites/add", errors.New(errors.ErrCodeAPIClient, "bad request"))
	out := buf.String()
	if !strings.Contains(out, "op=favorites/add") || !strings.Contains(out, "API-001") {
		t.Errorf("unexpected output %q", out)
	}

	buf.Reset()
	logger.LogError(context.Background(), "noop", nil)
	if buf.Len() != 0 {
		t.Error("LogError(nil) should not log")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("expected json")
	}
	if ParseFormat("console") != FormatText {
		t.Error("expected text fallback")
	}
	if FormatJSON.String() != "json" || FormatText.String() != "text" {
		t.Error("unexpected format names")
	}
}

func TestDefaultLogger(t *testing.T) {
	custom := Nop()
	SetDefaultLogger(custom)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	if DefaultLogger() != custom {
		t.Error("expected custom default logger")
	}
	if OrDefault(nil) != custom {
		t.Error("OrDefault(nil) should return default logger")
	}
	other := Nop()
	if OrDefault(other) != other {
		t.Error("OrDefault should prefer the given logger")
	}
}
