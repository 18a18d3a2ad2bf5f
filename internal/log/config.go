package log

import (
	"io"
	"os"
	"strings"
)

// Format represents the output format for logs
type Format int

const (
	// FormatText outputs logs in human-readable text format
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses a string into a Format. Anything other than "json"
// yields text, which is what a terminal user wants by default.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs are written. The CLI keeps stdout for command
	// output, so logs default to stderr.
	Output io.Writer

	// AddSource includes source file and line number in logs
	AddSource bool

	// Component is attached to every record as "component"
	Component string
}

// DefaultConfig logs warnings and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     LevelWarn,
		Format:    FormatText,
		Output:    os.Stderr,
		Component: "shopfront",
	}
}

// DevelopmentConfig logs everything with source locations.
func DevelopmentConfig() Config {
	return Config{
		Level:     LevelDebug,
		Format:    FormatText,
		Output:    os.Stderr,
		AddSource: true,
		Component: "shopfront",
	}
}

// Discard returns a configuration that drops every record. Used by tests.
func Discard() Config {
	return Config{
		Level:  LevelError,
		Format: FormatText,
		Output: io.Discard,
	}
}
