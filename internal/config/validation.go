// Package config provides configuration management for the race-odds tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("outputformat", validateOutputFormat)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{"text", "json", "yaml"}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateOutputFormat(fl validator.FieldLevel) bool {
	format := fl.Field().String()
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// validateCrossField performs checks that span several fields
func validateCrossField(cfg *Config) error {
	field := cfg.Field

	if field.WeightStep > field.MaxWeight-field.MinWeight {
		return fmt.Errorf("field weight_step %v exceeds weight range [%v, %v]", field.WeightStep, field.MinWeight, field.MaxWeight)
	}

	if field.DefaultWeight < field.MinWeight || field.DefaultWeight > field.MaxWeight {
		return fmt.Errorf("field default_weight %v outside [%v, %v]", field.DefaultWeight, field.MinWeight, field.MaxWeight)
	}

	if n := len(field.InitialWeights); n < field.MinRunners || n > field.MaxRunners {
		return fmt.Errorf("field initial_weights has %d runners, need between %d and %d", n, field.MinRunners, field.MaxRunners)
	}

	for i, w := range field.InitialWeights {
		if w < field.MinWeight || w > field.MaxWeight {
			return fmt.Errorf("field initial_weights[%d] = %v outside [%v, %v]", i, w, field.MinWeight, field.MaxWeight)
		}
	}

	if cfg.Cache.Enabled && (cfg.Cache.TTLSeconds <= 0 || cfg.Cache.MaxSize <= 0) {
		return fmt.Errorf("cache ttl_seconds and max_size must be positive when cache is enabled")
	}

	if cfg.IsProduction() && cfg.App.LogLevel == "debug" {
		return fmt.Errorf("production environment should not log at debug level")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructNamespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s=%s violated, got '%v'\n", field, tag, fieldError.Param(), value)
		case "gtfield", "gtefield":
			fmt.Fprintf(&b, "- Field '%s' must be greater than %s\n", field, fieldError.Param())
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "outputformat":
			fmt.Fprintf(&b, "- Field '%s' must be one of: %s\n", field, strings.Join(OutputFormats, ", "))
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
