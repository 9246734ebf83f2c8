// Package config provides configuration management for xrdscan.
//
// Configuration is read from a YAML file, layered over built-in defaults,
// and may be overridden by environment variables.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("xrdscan.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("xrdscan.yaml")
//
// LoadConfigWithEnvOverrides treats a missing file as empty.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention XRDSCAN_SECTION_FIELD:
//
//   - XRDSCAN_LOADER_USE_MMAP overrides loader.use_mmap
//   - XRDSCAN_CACHE_BACKEND overrides cache.backend
//   - XRDSCAN_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation
//
// Validation errors name every offending field:
//
//	configuration validation failed with 2 errors:
//	  - cache.backend: invalid backend "redis", must be one of: memory, sqlite
//	  - telemetry.logging.level: invalid log level "loud", must be one of: debug, info, warn, error
//
// # Example Configuration
//
//	loader:
//	  use_mmap: true
//
//	cache:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "~/.xrdscan/cache.db"
//	    driver: "sqlite"
//
//	telemetry:
//	  logging:
//	    level: "debug"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    textfile_path: "/var/lib/node_exporter/xrdscan.prom"
package config
