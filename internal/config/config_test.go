package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "default", cfg.Namespace)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.History.MaxSize)
	assert.Equal(t, 1.5, cfg.Templates.BondLength)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.AutoBondEnabled())
	assert.Equal(t, "lab.db", filepath.Base(cfg.DBPath))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/lab.db
namespace: chem101
history:
  max_size: 25
editor:
  auto_bond: false
templates:
  bond_length: 2
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lab.db", cfg.DBPath)
	assert.Equal(t, "chem101", cfg.Namespace)
	assert.Equal(t, 25, cfg.History.MaxSize)
	assert.False(t, cfg.AutoBondEnabled())
	assert.Equal(t, 2.0, cfg.Templates.BondLength)
	// untouched fields fall back to defaults
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeConfig(t, "history: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvNS, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "namespace: from-file\nlog_level: warn\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDB, "/data/env.db")
	t.Setenv(EnvNS, "from-env")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/env.db", cfg.DBPath)
	assert.Equal(t, "from-env", cfg.Namespace)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/lab.yaml")
	assert.Equal(t, "/explicit.yaml", Path("/explicit.yaml"))
	assert.Equal(t, "/etc/lab.yaml", Path(""))

	t.Setenv(EnvConfig, "")
	assert.Equal(t, filepath.Join(Home(), "config.yaml"), Path(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative history", func(c *Config) { c.History.MaxSize = -1 }},
		{"zero bond length", func(c *Config) { c.Templates.BondLength = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, "log_level: chatty\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "log_level")
}
