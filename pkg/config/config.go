// Package config handles loading and saving tlv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tlv/config.yaml
//   - Data:    ~/.local/share/tlv/ (exported snapshots)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	// DenominatorMode selects what aggregate percentages are proportions of:
	// "global" (whole trace) or "filtered" (visible slice).
	DenominatorMode string `yaml:"denominator_mode,omitempty"`
	// SplitRatio is the default timeline/stats pane split (0.2-0.8).
	SplitRatio float64 `yaml:"split_ratio,omitempty"`
}

// TraceConfig controls normalization behavior.
type TraceConfig struct {
	// SyntheticSpan is the display duration, in canonical units, given to
	// intervals whose end never arrived. 0 means the built-in default.
	SyntheticSpan int64 `yaml:"synthetic_span,omitempty"`
	// Unit is the canonical time base of loaded sources: "ns" or "us".
	Unit string `yaml:"unit,omitempty"`
}

// WatchConfig controls live reload of the loaded trace file.
type WatchConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Config is the top-level configuration for tlv.
type Config struct {
	UI    UIConfig    `yaml:"ui,omitempty"`
	Trace TraceConfig `yaml:"trace,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DenominatorMode: "global",
			SplitRatio:      0.6,
		},
		Trace: TraceConfig{
			Unit: "ns",
		},
	}
}

// WatchEnabled reports whether live reload is on. Defaults to true.
func (c Config) WatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// ConfigDir returns the XDG config directory for tlv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tlv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tlv")
}

// DataDir returns the XDG data directory for tlv.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tlv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "tlv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	switch strings.ToLower(cfg.UI.DenominatorMode) {
	case "", "global", "filtered":
	default:
		return cfg, fmt.Errorf("parsing config: unknown denominator_mode %q", cfg.UI.DenominatorMode)
	}
	switch strings.ToLower(cfg.Trace.Unit) {
	case "", "ns", "us", "µs":
	default:
		return cfg, fmt.Errorf("parsing config: unknown unit %q", cfg.Trace.Unit)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
