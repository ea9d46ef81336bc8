// Package config handles loading and hot-reloading the noticekit configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/noticekit/internal/notice"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultMetricsListen = "127.0.0.1:9464"
	DefaultContent       = "Notice"
)

// Validation errors.
var (
	ErrInvalidDuration  = errors.New("duration cannot be negative")
	ErrEmptyPrefix      = errors.New("prefix cannot be empty")
	ErrInvalidLogLevel  = errors.New("log level must be debug, info, warn or error")
	ErrInvalidAttribute = errors.New("attribute must be data-*, aria-* or role")
	ErrEmptyListen      = errors.New("metrics listen address cannot be empty")
)

// Config represents the noticekit configuration.
type Config struct {
	Notice  NoticeConfig  `toml:"notice" yaml:"notice"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	DBus    DBusConfig    `toml:"dbus" yaml:"dbus"`
}

// NoticeConfig holds the defaults a host applies to each notice it creates.
type NoticeConfig struct {
	Prefix     string            `toml:"prefix" yaml:"prefix"`
	Duration   Duration          `toml:"duration" yaml:"duration"` // "0" = never auto-close
	UpdateMark string            `toml:"update_mark" yaml:"update_mark"`
	Closable   bool              `toml:"closable" yaml:"closable"`
	Class      string            `toml:"class" yaml:"class"`
	Content    string            `toml:"content" yaml:"content"`
	CloseIcon  string            `toml:"close_icon" yaml:"close_icon"` // Text; empty = default "x" span
	Style      map[string]string `toml:"style" yaml:"style"`
	Attributes map[string]string `toml:"attributes" yaml:"attributes"` // data-*, aria-*, role
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn, error
}

// MetricsConfig holds Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Listen  string `toml:"listen" yaml:"listen"`
}

// DBusConfig holds session bus settings.
type DBusConfig struct {
	EmitClosed bool `toml:"emit_closed" yaml:"emit_closed"` // Emit NotificationClosed on dismissal
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Notice: NoticeConfig{
			Prefix:     notice.DefaultPrefix,
			Duration:   Duration(notice.DefaultDuration),
			Closable:   false,
			Content:    DefaultContent,
			Style:      make(map[string]string),
			Attributes: make(map[string]string),
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
		DBus: DBusConfig{
			EmitClosed: false,
		},
	}
}

// Path returns the default config file path.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "noticekit", "noticekit.toml"), nil
}

// Load loads configuration from path, or from Path() when path is empty.
// Files ending in .yaml or .yml are parsed as YAML, anything else as TOML.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Save writes the configuration as TOML to path, creating parent
// directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Notice.Duration < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, c.Notice.Duration.Duration())
	}
	if strings.TrimSpace(c.Notice.Prefix) == "" {
		return ErrEmptyPrefix
	}

	for _, name := range sortedKeys(c.Notice.Attributes) {
		if !notice.IsPassthroughAttribute(name) {
			return fmt.Errorf("%w: %q", ErrInvalidAttribute, name)
		}
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return ErrEmptyListen
	}

	return nil
}

// ParseLevel converts a configured level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w, got %q", ErrInvalidLogLevel, level)
	}
}

// ToNotice builds the notice configuration for key from the defaults.
func (n NoticeConfig) ToNotice(key string) notice.Config {
	cfg := notice.Config{
		Key:        key,
		Prefix:     n.Prefix,
		Duration:   n.Duration.Duration(),
		UpdateMark: n.UpdateMark,
		Closable:   n.Closable,
		Class:      n.Class,
	}

	if n.Content != "" {
		cfg.Children = []*html.Node{notice.Text(n.Content)}
	}
	if n.CloseIcon != "" {
		cfg.CloseIcon = notice.Text(n.CloseIcon)
	}
	if len(n.Style) > 0 {
		cfg.Style = make(map[string]string, len(n.Style))
		for k, v := range n.Style {
			cfg.Style[k] = v
		}
	}
	if len(n.Attributes) > 0 {
		cfg.Props = make(map[string]any, len(n.Attributes))
		for k, v := range n.Attributes {
			cfg.Props[k] = v
		}
	}

	return cfg
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
