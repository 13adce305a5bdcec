// Package config loads the optional YAML configuration shared by the
// plugin and mumble-dbus-ctl.
//
// Only ambient settings live here (which bus to use, how much to log). The
// exposed D-Bus contract (service name, object path, methods) is fixed.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/restitux/mumble-dbus/internal/logging"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "MUMBLE_DBUS_CONFIG"

// Bus kinds.
const (
	BusSession = "session"
	BusSystem  = "system"
)

// Config is the top-level YAML configuration.
type Config struct {
	Bus     BusConfig     `yaml:"bus"`
	Logging LoggingConfig `yaml:"logging"`
}

type BusConfig struct {
	Kind    string `yaml:"kind"`              // "session" or "system"
	Address string `yaml:"address,omitempty"` // explicit D-Bus address, overrides Kind's default
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Bus: BusConfig{
			Kind: BusSession,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mumble-dbus/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ExpandPath("~/.config/mumble-dbus/config.yaml")
	}
	return filepath.Join(dir, "mumble-dbus", "config.yaml")
}

// Load resolves the config path ($MUMBLE_DBUS_CONFIG or DefaultPath) and
// loads it. A missing file is not an error and yields DefaultConfig.
func Load() (Config, string, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath()
	}

	cfg, err := LoadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), path, nil
	}
	if err != nil {
		return DefaultConfig(), path, err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// LoadConfigFile reads and parses a YAML config file on top of the defaults.
//
// Unknown fields are rejected (helps catch typos) via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	// An empty file means "all defaults".
	if len(bytes.TrimSpace(b)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		// A file holding only comments decodes to nothing.
		if errors.Is(err, io.EOF) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace/comments are allowed after the document.
	var trailing yaml.Node
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		if err != nil {
			return Config{}, fmt.Errorf("decode config yaml: %w", err)
		}
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides carries command-line overrides. A nil pointer means "not set".
type FlagOverrides struct {
	BusKind    *string
	BusAddress *string
	LogLevel   *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.BusKind != nil {
		cfg.Bus.Kind = *o.BusKind
	}
	if o.BusAddress != nil {
		cfg.Bus.Address = *o.BusAddress
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
func (c *Config) Validate() error {
	switch c.Bus.Kind {
	case BusSession, BusSystem:
	case "":
		c.Bus.Kind = BusSession
	default:
		return fmt.Errorf("bus.kind must be %q or %q", BusSession, BusSystem)
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
