package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Values absent from the file keep their defaults. The result is validated.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention XRDSCAN_SECTION_FIELD (e.g., XRDSCAN_CACHE_BACKEND).
// A missing file is not an error: defaults plus overrides are used.
//
// The loading sequence is:
// 1. Defaults
// 2. YAML from file (if present)
// 3. Environment variable overrides
// 4. Validation
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		cfg = NewDefaultConfig()
	} else {
		return nil, fmt.Errorf("failed to access configuration file %q: %w", path, err)
	}

	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Loader overrides
	if val := os.Getenv("XRDSCAN_LOADER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Loader.MaxFileSize = i
		}
	}
	if val := os.Getenv("XRDSCAN_LOADER_USE_MMAP"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Loader.UseMmap = b
		}
	}

	// Cache overrides
	if val := os.Getenv("XRDSCAN_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if val := os.Getenv("XRDSCAN_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("XRDSCAN_CACHE_MEMORY_MAX_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.Memory.MaxEntries = i
		}
	}
	if val := os.Getenv("XRDSCAN_CACHE_SQLITE_PATH"); val != "" {
		cfg.Cache.SQLite.Path = val
	}
	if val := os.Getenv("XRDSCAN_CACHE_SQLITE_DRIVER"); val != "" {
		cfg.Cache.SQLite.Driver = val
	}
	if val := os.Getenv("XRDSCAN_CACHE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.SQLite.BusyTimeout = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("XRDSCAN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("XRDSCAN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("XRDSCAN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("XRDSCAN_TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}
}
