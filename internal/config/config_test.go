package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.Input)
	assert.False(t, cfg.WarningsAsErrors)
	assert.Equal(t, 200, cfg.MaxDiagnostics)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gta3scfront.yaml")
	contents := "input: mission1.sc\nwarningsaserrors: true\nmaxdiagnostics: 50\nlogging:\n  level: DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mission1.sc", cfg.Input)
	assert.True(t, cfg.WarningsAsErrors)
	assert.Equal(t, 50, cfg.MaxDiagnostics)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}
