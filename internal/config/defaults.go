package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputDir          = "."
	defaultLogDir             = "~/.local/share/subgen/logs"
	defaultMethod             = "vad"
	defaultBatchSeconds       = 120
	defaultMinSilenceSeconds  = 0.5
	defaultSilenceThreshold      = 0.01
	defaultForcedSplitMultiplier = 3.0
	defaultMinChunkSeconds       = 0.2
	defaultBackend            = "cloud"
	defaultModel              = "whisper-1"
	defaultWorkers            = 2
	defaultRetries            = 3
	defaultRetryInterval      = 1.0
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultCacheEnabled       = true
	defaultVocalFilterEnabled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			CacheDir:   defaultCacheDir(),
			LogDir:     defaultLogDir,
			CaptureDir: defaultCaptureDir(),
		},
		Segmentation: Segmentation{
			Method:             defaultMethod,
			BatchSeconds:       defaultBatchSeconds,
			MinSilenceSeconds:  defaultMinSilenceSeconds,
			SilenceThreshold:   defaultSilenceThreshold,
			VocalFilterEnabled:    defaultVocalFilterEnabled,
			ForcedSplitMultiplier: defaultForcedSplitMultiplier,
			MinChunkSeconds:       defaultMinChunkSeconds,
		},
		Transcriber: Transcriber{
			Backend:              defaultBackend,
			Model:                defaultModel,
			Workers:              defaultWorkers,
			Retries:              defaultRetries,
			RetryIntervalSeconds: defaultRetryInterval,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subgen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/subgen"
	}
	return filepath.Join(home, ".cache", "subgen")
}

func defaultCaptureDir() string {
	return filepath.Join(defaultCacheDir(), "capture")
}
