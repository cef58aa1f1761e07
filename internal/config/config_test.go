package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(1<<20), cfg.Scan.MaxFileSize)
	assert.Equal(t, 5*time.Second, cfg.Scan.ReadTimeout.Duration)
	assert.Equal(t, 5, cfg.Extract.Concurrency)
	assert.Equal(t, 15, cfg.Extract.MaxSurfaced)
	assert.Equal(t, "raw-md", cfg.Render.Format)
	assert.Equal(t, "docs", cfg.Render.OutputDir)
	assert.Equal(t, 0.8, cfg.Validate.Threshold)
	assert.False(t, cfg.Validate.AutoRepair)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codewiki.toml")
	content := `
[scan]
max_file_size = 2048
read_timeout = "10s"
exclude = ["**/*.gen.go"]

[extract]
max_surfaced = 8

[render]
title = "My Project"
format = "hugo"

[validate]
auto_repair = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.Scan.MaxFileSize)
	assert.Equal(t, 10*time.Second, cfg.Scan.ReadTimeout.Duration)
	assert.Equal(t, []string{"**/*.gen.go"}, cfg.Scan.Exclude)
	assert.Equal(t, 8, cfg.Extract.MaxSurfaced)
	assert.Equal(t, "My Project", cfg.Render.Title)
	assert.Equal(t, "hugo", cfg.Render.Format)
	assert.True(t, cfg.Validate.AutoRepair)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Extract.Concurrency)
	assert.Equal(t, "markdown", cfg.Report.Format)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scan\nbroken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
