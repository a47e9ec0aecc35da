// Package config loads command line configuration from a file, HW_ prefixed environment
// variables and flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/batch"
	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/spf13/viper"
)

const EnvPrefix = "HW"

var ErrMissingParameter = errors.New("missing required model parameter")

// Config represents the complete command line configuration
type Config struct {
	Model    ModelConfig    `mapstructure:"model"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Outliers OutlierConfig  `mapstructure:"outliers"`
	Input    InputConfig    `mapstructure:"input"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ModelConfig holds the smoothing parameters. None have defaults, a nil coefficient was never
// set.
type ModelConfig struct {
	Period int      `mapstructure:"period"`
	Alpha  *float64 `mapstructure:"alpha"`
	Beta   *float64 `mapstructure:"beta"`
	Gamma  *float64 `mapstructure:"gamma"`
}

// ForecastConfig holds forecast output configuration
type ForecastConfig struct {
	Horizon int `mapstructure:"horizon"`
}

// OutlierConfig holds residual outlier flagging configuration
type OutlierConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	LowerPercentile float64 `mapstructure:"lower_percentile"`
	UpperPercentile float64 `mapstructure:"upper_percentile"`
	TukeyFactor     float64 `mapstructure:"tukey_factor"`
}

// InputConfig describes how series without timestamps are placed in time
type InputConfig struct {
	Start    string        `mapstructure:"start"`
	Interval time.Duration `mapstructure:"interval"`
}

// StartTime parses Start as an RFC3339 timestamp
func (c InputConfig) StartTime() (time.Time, error) {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("input.start must be an RFC3339 timestamp, %w", err)
	}
	return start, nil
}

// BatchConfig holds batch worker configuration
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var modelKeys = []string{"model.period", "model.alpha", "model.beta", "model.gamma"}

// New returns a viper instance with defaults and environment overrides configured. Nested keys
// map to environment variables such as HW_MODEL_ALPHA.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// model keys have no defaults so unmarshal only sees them from the environment once bound
	for _, key := range modelKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// setDefaults configures default values. Smoothing parameters are deliberately absent.
func setDefaults(v *viper.Viper) {
	v.SetDefault("forecast.horizon", 12)

	v.SetDefault("outliers.enabled", false)
	v.SetDefault("outliers.lower_percentile", 0.25)
	v.SetDefault("outliers.upper_percentile", 0.75)
	v.SetDefault("outliers.tukey_factor", 1.5)

	v.SetDefault("input.start", "1970-01-01T00:00:00Z")
	v.SetDefault("input.interval", "24h")

	v.SetDefault("batch.concurrency", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads the optional config file at path and unmarshals the merged configuration
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	return &cfg, nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Model.Period == 0 {
		return fmt.Errorf("model.period is required, %w", ErrMissingParameter)
	}
	for key, val := range map[string]*float64{
		"model.alpha": c.Model.Alpha,
		"model.beta":  c.Model.Beta,
		"model.gamma": c.Model.Gamma,
	} {
		if val == nil {
			return fmt.Errorf("%s is required, %w", key, ErrMissingParameter)
		}
	}
	if err := c.Options().Validate(); err != nil {
		return err
	}

	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be at least 1")
	}
	if c.Input.Interval <= 0 {
		return fmt.Errorf("input.interval must be positive")
	}
	if _, err := c.Input.StartTime(); err != nil {
		return err
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch.concurrency must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}
	return nil
}

// Options converts the model and outlier configuration into forecaster options. Unset
// coefficients are NaN so that validation rejects them.
func (c *Config) Options() *holtwinters.Options {
	opt := &holtwinters.Options{
		Params: smoothing.NewParams(c.Model.Period, deref(c.Model.Alpha), deref(c.Model.Beta), deref(c.Model.Gamma)),
	}
	if c.Outliers.Enabled {
		opt.OutlierOptions = &holtwinters.OutlierOptions{
			LowerPercentile: c.Outliers.LowerPercentile,
			UpperPercentile: c.Outliers.UpperPercentile,
			TukeyFactor:     c.Outliers.TukeyFactor,
		}
	}
	return opt
}

// BatchOptions converts the configuration into batch runner options
func (c *Config) BatchOptions() batch.Options {
	return batch.Options{
		Forecast:        c.Options(),
		Horizon:         c.Forecast.Horizon,
		Concurrency:     c.Batch.Concurrency,
		DefaultInterval: c.Input.Interval,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
