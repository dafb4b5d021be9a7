// Package config provides configuration management for the tracer. Values are
// layered from defaults, an optional YAML file, .env files, TRACER_ environment
// variables and command-line flags through a viper instance.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/doctracer/internal/logger"
)

// EnvPrefix is the prefix of environment variables read by the tracer.
const EnvPrefix = "TRACER"

// Defaults
const (
	defaultAppName           = "doctracer"
	defaultWorkers           = 8
	defaultFetchTimeout      = 15 * time.Second
	defaultMaxBodyBytes      = int64(10 * 1024 * 1024)
	defaultMaxAttempts       = 1
	defaultRetryInitialDelay = 500 * time.Millisecond
	defaultRetryMaxDelay     = 5 * time.Second
	defaultExcerptWindow     = 100
	defaultExtractMode       = ExtractModeDocument
)

// Extraction modes.
const (
	ExtractModeDocument = "document"
	ExtractModeArticle  = "article"
)

// Config represents the application configuration.
type Config struct {
	// App holds application-wide settings
	App AppConfig `mapstructure:"app" yaml:"app"`
	// Logger holds logging settings
	Logger logger.Config `mapstructure:"logger" yaml:"logger"`
	// Tracer holds batch orchestration settings
	Tracer TracerConfig `mapstructure:"tracer" yaml:"tracer"`
	// Fetch holds document retrieval settings
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`
	// Scanner holds signature scanning settings
	Scanner ScannerConfig `mapstructure:"scanner" yaml:"scanner"`
	// Extract holds text extraction settings
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	// Metrics holds metrics export settings
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// AppConfig represents application-specific configuration settings.
type AppConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// TracerConfig configures the orchestrator.
type TracerConfig struct {
	// Workers is the worker pool size. Out-of-range values are clamped.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// SignaturesFile replaces the built-in signature table when set.
	SignaturesFile string `mapstructure:"signatures_file" yaml:"signatures_file"`
}

// FetchConfig configures document retrieval.
type FetchConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	MaxAttempts       int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetryInitialDelay time.Duration `mapstructure:"retry_initial_delay" yaml:"retry_initial_delay"`
	RetryMaxDelay     time.Duration `mapstructure:"retry_max_delay" yaml:"retry_max_delay"`
}

// ScannerConfig configures the scanner.
type ScannerConfig struct {
	// ExcerptWindow is the number of characters kept on each side of a match.
	ExcerptWindow int `mapstructure:"excerpt_window" yaml:"excerpt_window"`
	// Prefilter enables keyword prefiltering of matchers.
	Prefilter bool `mapstructure:"prefilter" yaml:"prefilter"`
}

// ExtractConfig configures text extraction.
type ExtractConfig struct {
	// Mode is "document" or "article".
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is a path the metrics are written to after each run. Empty disables export.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":  defaultAppName,
		"debug": false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        string(logger.DefaultLevel),
		"development":  false,
		"encoding":     logger.DefaultEncoding,
		"output_paths": logger.DefaultOutputPaths,
	})

	v.SetDefault("tracer", map[string]any{
		"workers":         defaultWorkers,
		"signatures_file": "",
	})

	v.SetDefault("fetch", map[string]any{
		"timeout":             defaultFetchTimeout,
		"user_agent":          "",
		"max_body_bytes":      defaultMaxBodyBytes,
		"max_attempts":        defaultMaxAttempts,
		"retry_initial_delay": defaultRetryInitialDelay,
		"retry_max_delay":     defaultRetryMaxDelay,
	})

	v.SetDefault("scanner", map[string]any{
		"excerpt_window": defaultExcerptWindow,
		"prefilter":      true,
	})

	v.SetDefault("extract", map[string]any{
		"mode": defaultExtractMode,
	})

	v.SetDefault("metrics", map[string]any{
		"textfile": "",
	})
}

// NewViper returns a viper instance with defaults registered and TRACER_
// environment variables enabled. A non-empty cfgFile is read as the config
// file, otherwise config.yaml is looked up in . and ./config and is optional.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, &LoadError{File: configFileName(v, cfgFile), Err: err}
		}
	}

	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &LoadError{File: configFileName(v, ""), Err: err}
	}

	if cfg.App.Debug {
		cfg.Logger.Level = logger.DebugLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	validators := []struct {
		section string
		fn      func() error
	}{
		{"logger", c.validateLogger},
		{"fetch", c.Fetch.Validate},
		{"scanner", c.Scanner.Validate},
		{"extract", c.Extract.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.section, err)
		}
	}
	return nil
}

func (c *Config) validateLogger() error {
	switch c.Logger.Level {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return &ValidationError{Field: "logger.level", Value: c.Logger.Level, Reason: "must be debug, info, warn or error"}
	}
	switch c.Logger.Encoding {
	case "console", "json":
	default:
		return &ValidationError{Field: "logger.encoding", Value: c.Logger.Encoding, Reason: "must be console or json"}
	}
	return nil
}

// Validate checks the fetch configuration.
func (c *FetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return &ValidationError{Field: "fetch.timeout", Value: c.Timeout, Reason: "must be positive"}
	}
	if c.MaxBodyBytes <= 0 {
		return &ValidationError{Field: "fetch.max_body_bytes", Value: c.MaxBodyBytes, Reason: "must be positive"}
	}
	if c.MaxAttempts < 1 {
		return &ValidationError{Field: "fetch.max_attempts", Value: c.MaxAttempts, Reason: "must be at least 1"}
	}
	if c.RetryInitialDelay < 0 || c.RetryMaxDelay < 0 {
		return &ValidationError{Field: "fetch.retry_initial_delay", Value: c.RetryInitialDelay, Reason: "retry delays must not be negative"}
	}
	return nil
}

// Validate checks the scanner configuration.
func (c *ScannerConfig) Validate() error {
	if c.ExcerptWindow < 0 {
		return &ValidationError{Field: "scanner.excerpt_window", Value: c.ExcerptWindow, Reason: "must not be negative"}
	}
	return nil
}

// Validate checks the extraction configuration.
func (c *ExtractConfig) Validate() error {
	switch c.Mode {
	case ExtractModeDocument, ExtractModeArticle:
		return nil
	default:
		return &ValidationError{Field: "extract.mode", Value: c.Mode, Reason: "must be document or article"}
	}
}

func configFileName(v *viper.Viper, cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return "defaults"
}
