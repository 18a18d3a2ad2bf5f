package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/shopfront/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit shopfront configuration",
	Long: `Manage shopfront configuration stored at ~/.config/shopfront/config.yaml

Configuration includes:
  • Backend URL, timeouts and retries
  • Storage driver (file, redis or memory)
  • Logging, locale and default output format
  • Metrics textfile and tracing export

Every key can also be set with a SHOPFRONT_* environment variable, e.g.
SHOPFRONT_API_BASE_URL for api.base_url.

Examples:
  # View the effective configuration
  shopfront config view

  # Edit the configuration file in $EDITOR
  shopfront config edit

  # Get a specific value
  shopfront config get api.base_url

  # Set a specific value
  shopfront config set storage.driver redis

  # Show configuration file path
  shopfront config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Long:  `Display the configuration after defaults, the file, environment and flags are merged. Secrets are redacted.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in $EDITOR",
	Long:  `Open the configuration file in your default editor (from $EDITOR environment variable).`,
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  `Retrieve the effective value of a configuration key using dot notation (e.g., api.base_url).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific configuration value",
	Long:  `Write a configuration key to the configuration file using dot notation (e.g., storage.driver memory).`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// redacted replaces secret values in config output.
const redacted = "********"

// secretKeys are never printed.
var secretKeys = map[string]bool{
	"storage.redis.password": true,
}

// settings flattens cfg into dotted keys, the same keys the file and
// SHOPFRONT_* variables use.
func settings(cfg *config.Config) map[string]any {
	return map[string]any{
		"api.base_url":               cfg.API.BaseURL,
		"api.timeout":                cfg.API.Timeout.String(),
		"api.retry_max":              cfg.API.RetryMax,
		"api.retry_wait_min":         cfg.API.RetryWaitMin.String(),
		"api.retry_wait_max":         cfg.API.RetryWaitMax.String(),
		"api.strict_contract":        cfg.API.StrictContract,
		"storage.driver":             cfg.Storage.Driver,
		"storage.path":               cfg.Storage.Path,
		"storage.redis.addr":         cfg.Storage.Redis.Addr,
		"storage.redis.password":     cfg.Storage.Redis.Password,
		"storage.redis.db":           cfg.Storage.Redis.DB,
		"storage.redis.namespace":    cfg.Storage.Redis.Namespace,
		"storage.redis.dial_timeout": cfg.Storage.Redis.DialTimeout.String(),
		"log.level":                  cfg.Log.Level,
		"log.format":                 cfg.Log.Format,
		"locale":                     cfg.Locale,
		"output":                     cfg.Output,
		"metrics.textfile":           cfg.Metrics.Textfile,
		"tracing.enabled":            cfg.Tracing.Enabled,
		"tracing.endpoint":           cfg.Tracing.Endpoint,
		"tracing.insecure":           cfg.Tracing.Insecure,
		"tracing.sample_rate":        cfg.Tracing.SampleRate,
	}
}

// configView is the redacted, flattened configuration.
type configView struct {
	File     string         `json:"file" yaml:"file"`
	Settings map[string]any `json:"settings" yaml:"settings"`
}

func newConfigView(cfg *config.Config) configView {
	values := settings(cfg)
	for key := range secretKeys {
		if s, ok := values[key].(string); ok && s != "" {
			values[key] = redacted
		}
	}
	return configView{File: cfg.File, Settings: values}
}

func (v configView) Data() any { return v }

func (v configView) String() string {
	var b strings.Builder
	if v.File != "" {
		fmt.Fprintf(&b, "Configuration file: %s\n\n", v.File)
	} else {
		b.WriteString("Configuration file: none (defaults and environment)\n\n")
	}

	keys := make([]string, 0, len(v.Settings))
	for k := range v.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %v\n", k, v.Settings[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

// configFilePath is the file config set and edit write to.
func configFilePath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if path == "" {
		path = config.DefaultFile()
	}
	return path, nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	return cc.print(newConfigView(cc.Config))
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	value, err := getNestedValue(cc.Config, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}

	if err := setNestedValue(path, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, map[string]any{}); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	if _, err := config.Load(path, nil); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: the configuration file contains errors.\n")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration updated successfully")
	return nil
}

// getNestedValue returns the effective value of a dotted key.
func getNestedValue(cfg *config.Config, key string) (string, error) {
	value, ok := settings(cfg)[key]
	if !ok {
		return "", fmt.Errorf("invalid argument: unknown configuration key: %s", key)
	}
	if secretKeys[key] && value != "" {
		return redacted, nil
	}
	return fmt.Sprint(value), nil
}

// setNestedValue writes key to the YAML file at path. The value is decoded
// as a YAML scalar so "true" and "3" keep their types. The file is restored
// when the result does not load.
func setNestedValue(path, key, value string) error {
	if _, known := settings(config.Default())[key]; !known {
		return fmt.Errorf("invalid argument: unknown configuration key: %s", key)
	}

	previous, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}

	doc := map[string]any{}
	if len(previous) > 0 {
		if err := yaml.Unmarshal(previous, &doc); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var scalar any
	if err := yaml.Unmarshal([]byte(value), &scalar); err != nil || scalar == nil {
		scalar = value
	}

	parts := strings.Split(key, ".")
	node := doc
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = scalar

	if err := writeConfigFile(path, doc); err != nil {
		return err
	}

	if _, err := config.Load(path, nil); err != nil {
		if len(previous) > 0 {
			_ = os.WriteFile(path, previous, 0o600)
		} else {
			_ = os.Remove(path)
		}
		return err
	}
	return nil
}

func writeConfigFile(path string, doc map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
