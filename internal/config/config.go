// Package config loads codewiki's TOML configuration and applies defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration for a documentation run.
type Config struct {
	Scan     ScanConfig     `toml:"scan"`
	Extract  ExtractConfig  `toml:"extract"`
	Render   RenderConfig   `toml:"render"`
	Validate ValidateConfig `toml:"validate"`
	Report   ReportConfig   `toml:"report"`
}

type ScanConfig struct {
	MaxFileSize int64    `toml:"max_file_size"` // bytes
	ReadTimeout duration `toml:"read_timeout"`
	Workers     int      `toml:"workers"`
	Include     []string `toml:"include"`
	Exclude     []string `toml:"exclude"`
}

type ExtractConfig struct {
	Concurrency int `toml:"concurrency"`
	MaxSurfaced int `toml:"max_surfaced"`
}

type RenderConfig struct {
	Title     string `toml:"title"`
	Format    string `toml:"format"` // raw-md, hugo, docusaurus
	OutputDir string `toml:"output_dir"`
}

type ValidateConfig struct {
	AutoRepair bool    `toml:"auto_repair"`
	Threshold  float64 `toml:"threshold"`
}

type ReportConfig struct {
	Format string `toml:"format"` // markdown, json
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			MaxFileSize: 1 << 20,
			ReadTimeout: duration{5 * time.Second},
		},
		Extract: ExtractConfig{
			Concurrency: 5,
			MaxSurfaced: 15,
		},
		Render: RenderConfig{
			Format:    "raw-md",
			OutputDir: "docs",
		},
		Validate: ValidateConfig{
			Threshold: 0.8,
		},
		Report: ReportConfig{
			Format: "markdown",
		},
	}
}

// Load reads a TOML config file on top of the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// duration lets TOML carry human-readable values like "5s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
