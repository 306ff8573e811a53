// Package config reads ~/.vselect/config.yaml, or a TOML file of the same
// shape.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/ruminaider/vselect/internal/search"
)

// Bounds applied by Normalize.
const (
	DefaultOverscan       = 4
	DefaultEstimateHeight = 1
	DefaultDebounceMS     = 16
	DefaultHeight         = 12
	DefaultTimeoutMS      = 10000
	DefaultParam          = "q"
	maxOverscan           = 200
)

// Config represents the picker settings.
type Config struct {
	Multiple       bool   `yaml:"multiple" toml:"multiple"`
	Overscan       int    `yaml:"overscan,omitempty" toml:"overscan,omitempty"`
	EstimateHeight int    `yaml:"estimate_height,omitempty" toml:"estimate_height,omitempty"`
	DebounceMS     int    `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty"`
	Height         int    `yaml:"height,omitempty" toml:"height,omitempty"`
	Locale         string `yaml:"locale,omitempty" toml:"locale,omitempty"`
	Search         Search `yaml:"search,omitempty" toml:"search"`
	Remote         Remote `yaml:"remote,omitempty" toml:"remote"`
	Log            Log    `yaml:"log,omitempty" toml:"log"`
}

// Search holds local filtering preferences.
type Search struct {
	Mode            string `yaml:"mode,omitempty" toml:"mode,omitempty"`
	MatchGroupLabel bool   `yaml:"match_group_label,omitempty" toml:"match_group_label,omitempty"`
}

// Remote points the search box at an HTTP endpoint. An empty URL keeps search
// local.
type Remote struct {
	URL       string `yaml:"url,omitempty" toml:"url,omitempty"`
	Param     string `yaml:"param,omitempty" toml:"param,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms,omitempty" toml:"timeout_ms,omitempty"`
}

// Log configures the debug log file.
type Log struct {
	Level string `yaml:"level,omitempty" toml:"level,omitempty"`
	File  string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Default returns a config with every default filled in.
func Default() Config {
	return Normalize(Config{})
}

// Normalize fills zero values with defaults and clamps out-of-range ones.
func Normalize(cfg Config) Config {
	if cfg.Overscan <= 0 {
		cfg.Overscan = DefaultOverscan
	}
	if cfg.Overscan > maxOverscan {
		cfg.Overscan = maxOverscan
	}
	if cfg.EstimateHeight <= 0 {
		cfg.EstimateHeight = DefaultEstimateHeight
	}
	if cfg.DebounceMS < 0 {
		cfg.DebounceMS = 0
	} else if cfg.DebounceMS == 0 {
		cfg.DebounceMS = DefaultDebounceMS
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	cfg.Search.Mode = string(search.ParseMode(cfg.Search.Mode))
	if cfg.Remote.Param == "" {
		cfg.Remote.Param = DefaultParam
	}
	if cfg.Remote.TimeoutMS <= 0 {
		cfg.Remote.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return cfg
}

// Debounce returns the visibility notification delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout returns the remote request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Remote.TimeoutMS) * time.Millisecond
}

// SearchOptions converts the search section for the filter.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Mode:            search.ParseMode(c.Search.Mode),
		MatchGroupLabel: c.Search.MatchGroupLabel,
	}
}

// Parse parses config.yaml bytes into a normalized Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return Normalize(cfg), nil
}

// ParseTOML parses TOML bytes into a normalized Config.
func ParseTOML(data []byte) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return Normalize(cfg), nil
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// MarshalTOML serializes a Config to TOML bytes.
func MarshalTOML(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads path, choosing the decoder by extension. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if isTOML(path) {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = MarshalTOML(cfg)
	} else {
		data, err = Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
