package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/ytqueue/internal/platform"
)

// Environment variable naming
const (
	EnvPrefix     = "YTQUEUE_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Default values
const (
	DefaultMaxParallel   = 2
	DefaultQualityPreset = platform.PresetMedium
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
	FallbackDownloadsDir = "/tmp/downloads"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
}

// Config defines configuration for the ytqueue CLI.
type Config struct {
	QueueFile     string
	OutputDir     string
	MaxParallel   int
	QualityPreset string
	Retry         RetryConfig
}

// Default returns a Config with sensible defaults. The output directory
// falls back to the user's Downloads directory.
func Default() Config {
	outputDir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		outputDir = FallbackDownloadsDir
	}

	return Config{
		OutputDir:     outputDir,
		MaxParallel:   DefaultMaxParallel,
		QualityPreset: DefaultQualityPreset,
		Retry: RetryConfig{
			Attempts:  DefaultRetryAttempts,
			BaseDelay: DefaultRetryDelay,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	QueueFile     string          `yaml:"queue_file"`
	OutputDir     string          `yaml:"output_dir"`
	MaxParallel   int             `yaml:"max_parallel"`
	QualityPreset string          `yaml:"quality_preset"`
	Retry         yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts  int    `yaml:"attempts"`
	BaseDelay string `yaml:"base_delay"`
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.QueueFile != "" {
		cfg.QueueFile = yc.QueueFile
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.MaxParallel != 0 {
		cfg.MaxParallel = yc.MaxParallel
	}
	if yc.QualityPreset != "" {
		cfg.QualityPreset = yc.QualityPreset
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.BaseDelay != "" {
		d, err := time.ParseDuration(yc.Retry.BaseDelay)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.base_delay: %w", err)
		}
		cfg.Retry.BaseDelay = d
	}

	return cfg, nil
}

// LoadFromEnv overlays configuration from environment variables using the
// YTQUEUE_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvPrefix + "QUALITY"); v != "" {
		c.QualityPreset = v
	}
	if v := os.Getenv(EnvPrefix + "MAX_PARALLEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sMAX_PARALLEL: %w", EnvPrefix, err)
		}
		c.MaxParallel = n
	}
	if v := os.Getenv(EnvPrefix + "RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sRETRY_ATTEMPTS: %w", EnvPrefix, err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv(EnvPrefix + "RETRY_BASE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sRETRY_BASE_DELAY: %w", EnvPrefix, err)
		}
		c.Retry.BaseDelay = d
	}
	return nil
}

// Load builds the effective configuration: defaults, then the optional
// config file named by YTQUEUE_CONFIG, then environment overrides, then
// the queue path from the command line, which always wins.
func Load(queuePath string) (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}

	if queuePath != "" {
		cfg.QueueFile = queuePath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.QueueFile == "" {
		return errors.New("queue file path is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1, got %d", c.MaxParallel)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive, got %v", c.Retry.BaseDelay)
	}
	return nil
}
