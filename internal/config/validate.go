package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	switch c.Segmentation.Method {
	case "fixed", "vad":
	default:
		return fmt.Errorf("segmentation.method must be %q or %q", "fixed", "vad")
	}
	if c.Segmentation.SilenceThreshold >= 1 {
		return errors.New("segmentation.silence_threshold must be below 1 (amplitude scale)")
	}
	if c.Segmentation.LimitSeconds < 0 {
		return errors.New("segmentation.limit_seconds must be >= 0")
	}
	if c.Segmentation.ForcedSplitMultiplier < 1 {
		return errors.New("segmentation.forced_split_multiplier must be >= 1")
	}
	if c.Segmentation.MinChunkSeconds >= c.Segmentation.BatchSeconds {
		return errors.New("segmentation.min_chunk_seconds must be below segmentation.batch_seconds")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	switch c.Transcriber.Backend {
	case "cloud":
		if c.Transcriber.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/subgen/config.toml"
			}
			return fmt.Errorf("transcriber.api_key is required for the cloud backend. Set SUBGEN_API_KEY env var or edit %s (create with 'subgen config init')", defaultPath)
		}
	case "local":
		if c.Transcriber.BaseURL == "" {
			return errors.New("transcriber.base_url must be set for the local backend")
		}
	default:
		return fmt.Errorf("transcriber.backend must be %q or %q", "cloud", "local")
	}
	if c.Transcriber.OverlapClampSeconds < 0 {
		return errors.New("transcriber.overlap_clamp_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q", "console", "json")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
