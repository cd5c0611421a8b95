// Package config loads molecule-lab settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfig   = "MOLECULE_LAB_CONFIG"
	EnvDB       = "MOLECULE_LAB_DB"
	EnvNS       = "MOLECULE_LAB_NS"
	EnvLogLevel = "MOLECULE_LAB_LOG_LEVEL"
)

// Config is the top-level configuration.
type Config struct {
	DBPath    string          `yaml:"db_path"`
	Namespace string          `yaml:"namespace"`
	LogLevel  string          `yaml:"log_level"`
	History   HistoryConfig   `yaml:"history"`
	Editor    EditorConfig    `yaml:"editor"`
	Templates TemplatesConfig `yaml:"templates"`
	Server    ServerConfig    `yaml:"server"`
}

type HistoryConfig struct {
	MaxSize int `yaml:"max_size"`
}

type EditorConfig struct {
	// AutoBond is a pointer so that an explicit false survives defaulting.
	AutoBond *bool `yaml:"auto_bond"`
}

type TemplatesConfig struct {
	BondLength float64 `yaml:"bond_length"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Home returns the molecule-lab state directory (~/.molecule-lab).
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".molecule-lab"
	}
	return filepath.Join(home, ".molecule-lab")
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(Home(), "lab.db")
	}
	if c.Namespace == "" {
		c.Namespace = "default"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.History.MaxSize == 0 {
		c.History.MaxSize = 100
	}
	if c.Editor.AutoBond == nil {
		on := true
		c.Editor.AutoBond = &on
	}
	if c.Templates.BondLength == 0 {
		c.Templates.BondLength = 1.5
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// AutoBondEnabled reports the effective auto-bond setting.
func (c Config) AutoBondEnabled() bool {
	return c.Editor.AutoBond == nil || *c.Editor.AutoBond
}

// Path resolves the config file location: explicit path, then
// $MOLECULE_LAB_CONFIG, then ~/.molecule-lab/config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(Home(), "config.yaml")
}

// LoadFile reads and parses a YAML config file and applies defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Load resolves the config file (a missing file yields defaults), applies
// environment overrides and validates the result.
func Load(explicit string) (Config, error) {
	path := Path(explicit)
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return Config{}, err
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvNS); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the semantic constraints of a config.
func (c Config) Validate() error {
	if c.History.MaxSize <= 0 {
		return fmt.Errorf("history.max_size must be positive, got %d", c.History.MaxSize)
	}
	if c.Templates.BondLength <= 0 {
		return fmt.Errorf("templates.bond_length must be positive, got %v", c.Templates.BondLength)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}
