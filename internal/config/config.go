// Package config handles configuration for chaindocs.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HostEnvVar overrides the configured host when set
const HostEnvVar = "CHAINDOCS_HOST"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour standard style or path to JSON style
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Host is the base URL of the ChainDocs server.
	Host string `json:"host"`
	// TimeoutSeconds bounds a single /ask or /health exchange.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Verbose enables debug logging.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Host:            "http://localhost:8000",
		TimeoutSeconds:  60,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveHost picks the server URL: flag, then environment, then config file.
func (c Config) ResolveHost(flag string) string {
	host := c.Host
	if env := strings.TrimSpace(os.Getenv(HostEnvVar)); env != "" {
		host = env
	}
	if flag = strings.TrimSpace(flag); flag != "" {
		host = flag
	}
	if host == "" {
		host = DefaultConfig().Host
	}
	return strings.TrimRight(host, "/")
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chaindocs"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogsDir returns the directory log files are written to
func GetLogsDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateHost checks that host is an absolute http(s) URL
func ValidateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid host %q: scheme must be http or https", host)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid host %q: missing hostname", host)
	}
	return nil
}

// setters maps settable keys to their parsers
var setters = map[string]func(*Config, string) error{
	"host": func(c *Config, v string) error {
		v = strings.TrimRight(strings.TrimSpace(v), "/")
		if err := ValidateHost(v); err != nil {
			return err
		}
		c.Host = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
	"verbose":           boolSetter(func(c *Config) *bool { return &c.Verbose }),
	"copy_to_clipboard": boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = strings.TrimSpace(v)
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = strings.TrimSpace(v)
		return nil
	},
	"markdown.enable_emoji":       boolSetter(func(c *Config) *bool { return &c.Markdown.EnableEmoji }),
	"markdown.preserve_newlines":  boolSetter(func(c *Config) *bool { return &c.Markdown.PreserveNewLines }),
	"markdown.table_wrap":         boolSetter(func(c *Config) *bool { return &c.Markdown.TableWrap }),
	"markdown.inline_table_links": boolSetter(func(c *Config) *bool { return &c.Markdown.InlineTableLinks }),
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(c) = b
		return nil
	}
}

// Set updates a single key on cfg. Keys use the JSON names, with "markdown."
// prefixing the markdown section.
func (c *Config) Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := setter(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
