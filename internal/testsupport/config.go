// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/qualuo/ai-lab/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// WithMode sets the deployment mode.
func WithMode(mode config.Mode) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Install.Mode = string(mode)
	}
}

// WithModels replaces the configured model list.
func WithModels(names ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Models.Names = names
	}
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.DesktopDir = filepath.Join(base, "desktop")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
