// Package config provides configuration management for the race-odds tools.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Field   FieldConfig   `mapstructure:"field" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  OutputConfig  `mapstructure:"output" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// FieldConfig bounds the runner list managed by the field service.
// Weights set by a caller are clamped into [MinWeight, MaxWeight] and
// snapped to WeightStep.
type FieldConfig struct {
	MinRunners     int       `mapstructure:"min_runners" validate:"required,gte=1"`
	MaxRunners     int       `mapstructure:"max_runners" validate:"required,gtefield=MinRunners,lte=20"`
	MinWeight      float64   `mapstructure:"min_weight" validate:"required,gt=0"`
	MaxWeight      float64   `mapstructure:"max_weight" validate:"required,gtfield=MinWeight"`
	WeightStep     float64   `mapstructure:"weight_step" validate:"required,gt=0"`
	DefaultWeight  float64   `mapstructure:"default_weight" validate:"required,gt=0"`
	InitialWeights []float64 `mapstructure:"initial_weights" validate:"required,min=1,dive,gt=0"`
}

// CacheConfig represents the evaluation result cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// MetricsConfig represents metrics export configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// OutputConfig controls how evaluations are rendered
type OutputConfig struct {
	Format    string `mapstructure:"format" validate:"required,outputformat"`
	Precision int    `mapstructure:"precision" validate:"gte=0,lte=10"`
}

// Default returns the built-in configuration: two runners of weight 1,
// at most twelve, weights 0.1 to 10 in steps of 0.1.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "race-odds",
			Environment: "development",
			LogLevel:    "info",
		},
		Field: FieldConfig{
			MinRunners:     2,
			MaxRunners:     12,
			MinWeight:      0.1,
			MaxWeight:      10,
			WeightStep:     0.1,
			DefaultWeight:  1,
			InitialWeights: []float64{1, 1},
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxSize:    1024,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format:    "text",
			Precision: 2,
		},
	}
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns the cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
