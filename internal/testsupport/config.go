// Package testsupport provides helpers shared by package tests: temp-dir
// configs, synthetic waveforms, and scripted transcription backends.
package testsupport

import (
	"path/filepath"
	"testing"

	"subgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CaptureDir = filepath.Join(base, "capture")
	cfg.Transcriber.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackend sets the transcriber backend on the test config.
func WithBackend(backend string) ConfigOption {
	return func(c *config.Config) {
		c.Transcriber.Backend = backend
	}
}

// WithSegmentationMethod sets the chunking method on the test config.
func WithSegmentationMethod(method string) ConfigOption {
	return func(c *config.Config) {
		c.Segmentation.Method = method
	}
}
