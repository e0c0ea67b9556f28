package config

import (
	"fmt"
	"os"
	"strings"

	"subgen/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSegmentation(); err != nil {
		return err
	}
	if err := c.normalizeTranscriber(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CaptureDir) == "" {
		c.Paths.CaptureDir = defaultCaptureDir()
	}
	if c.Paths.CaptureDir, err = expandPath(c.Paths.CaptureDir); err != nil {
		return fmt.Errorf("paths.capture_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSegmentation() error {
	c.Segmentation.Method = strings.ToLower(strings.TrimSpace(c.Segmentation.Method))
	if c.Segmentation.Method == "" {
		c.Segmentation.Method = defaultMethod
	}
	if c.Segmentation.BatchSeconds <= 0 {
		c.Segmentation.BatchSeconds = defaultBatchSeconds
	}
	if c.Segmentation.MinSilenceSeconds <= 0 {
		c.Segmentation.MinSilenceSeconds = defaultMinSilenceSeconds
	}
	if c.Segmentation.SilenceThreshold <= 0 {
		c.Segmentation.SilenceThreshold = defaultSilenceThreshold
	}
	if c.Segmentation.ForcedSplitMultiplier <= 0 {
		c.Segmentation.ForcedSplitMultiplier = defaultForcedSplitMultiplier
	}
	if c.Segmentation.MinChunkSeconds <= 0 {
		c.Segmentation.MinChunkSeconds = defaultMinChunkSeconds
	}
	return nil
}

func (c *Config) normalizeTranscriber() error {
	c.Transcriber.Backend = strings.ToLower(strings.TrimSpace(c.Transcriber.Backend))
	if c.Transcriber.Backend == "" {
		c.Transcriber.Backend = defaultBackend
	}
	c.Transcriber.BaseURL = strings.TrimSpace(c.Transcriber.BaseURL)
	c.Transcriber.APIKey = strings.TrimSpace(c.Transcriber.APIKey)
	if c.Transcriber.APIKey == "" {
		for _, key := range []string{"SUBGEN_API_KEY", "OPENAI_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.Transcriber.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultModel
	}
	if normalized, ok := language.Normalize(c.Transcriber.Language); ok {
		c.Transcriber.Language = normalized
	} else {
		return fmt.Errorf("transcriber.language: unrecognized language %q", c.Transcriber.Language)
	}
	if c.Transcriber.Workers <= 0 {
		c.Transcriber.Workers = defaultWorkers
	}
	if c.Transcriber.Retries < 0 {
		c.Transcriber.Retries = defaultRetries
	}
	if c.Transcriber.RetryIntervalSeconds <= 0 {
		c.Transcriber.RetryIntervalSeconds = defaultRetryInterval
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
