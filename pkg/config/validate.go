package config

import (
	"fmt"
	"slices"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "cache.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	// Validate loader configuration
	errs = append(errs, validateLoader(&cfg.Loader)...)

	// Validate cache configuration
	errs = append(errs, validateCache(&cfg.Cache)...)

	// Validate telemetry configuration
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateLoader validates the loader configuration.
func validateLoader(cfg *LoaderConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "loader.max_file_size",
			Message: "must be positive",
		})
	}

	return errs
}

// validateCache validates the cache configuration.
func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	validBackends := []string{"memory", "sqlite"}
	if !slices.Contains(validBackends, cfg.Backend) {
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("invalid backend %q, must be one of: %s", cfg.Backend, strings.Join(validBackends, ", ")),
		})
	}

	if cfg.Memory.MaxEntries < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.memory.max_entries",
			Message: "must be positive",
		})
	}

	if cfg.Backend == "sqlite" {
		validDrivers := []string{"sqlite", "sqlite3"}
		if !slices.Contains(validDrivers, cfg.SQLite.Driver) {
			errs = append(errs, FieldError{
				Field:   "cache.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q, must be one of: %s", cfg.SQLite.Driver, strings.Join(validDrivers, ", ")),
			})
		}
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "cache.sqlite.path",
				Message: "path is required when backend is sqlite",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "cache.sqlite.busy_timeout",
				Message: "must not be negative",
			})
		}
	}

	return errs
}

// validateTelemetry validates the telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q, must be one of: %s", cfg.Logging.Level, strings.Join(validLevels, ", ")),
		})
	}

	validFormats := []string{"json", "text", "console"}
	if !slices.Contains(validFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q, must be one of: %s", cfg.Logging.Format, strings.Join(validFormats, ", ")),
		})
	}

	for i, b := range cfg.Metrics.ParseDurationBuckets {
		if b <= 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.metrics.parse_duration_buckets[%d]", i),
				Message: "bucket must be positive",
			})
		} else if i > 0 && b <= cfg.Metrics.ParseDurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.metrics.parse_duration_buckets[%d]", i),
				Message: "buckets must be strictly increasing",
			})
		}
	}

	return errs
}
