package config

import "time"

// Config is the root configuration structure for xrdscan.
// It contains all configuration sections for loading scan files, caching
// parsed results and telemetry.
type Config struct {
	// Loader controls how scan files are read.
	Loader LoaderConfig `yaml:"loader"`

	// Cache controls memoization of parsed scan files.
	Cache CacheConfig `yaml:"cache"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoaderConfig contains configuration for reading scan files.
type LoaderConfig struct {
	// MaxFileSize is the largest file, in bytes, the loader will read.
	// Default: 268435456 (256MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// UseMmap reads files through a read-only memory mapping.
	// Default: false
	UseMmap bool `yaml:"use_mmap"`
}

// CacheConfig contains configuration for the parse cache.
type CacheConfig struct {
	// Enabled turns memoization of parsed files on or off.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Memory configures the in-process store.
	Memory MemoryCacheConfig `yaml:"memory"`

	// SQLite configures the on-disk store.
	SQLite SQLiteCacheConfig `yaml:"sqlite"`
}

// MemoryCacheConfig configures the in-memory cache.
type MemoryCacheConfig struct {
	// MaxEntries bounds the number of cached files; the least recently
	// used entry is evicted first.
	// Default: 256
	MaxEntries int `yaml:"max_entries"`
}

// SQLiteCacheConfig configures the SQLite cache.
type SQLiteCacheConfig struct {
	// Path is the database file path.
	// Default: "~/.xrdscan/cache.db" expanded at load time
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite" (pure Go, modernc.org/sqlite), "sqlite3" (cgo, mattn/go-sqlite3)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// BusyTimeout is how long to wait for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "xrdscan"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "ras"
	Subsystem string `yaml:"subsystem"`

	// TextfilePath, when set, receives the collected metrics in the
	// Prometheus text format when the command exits.
	TextfilePath string `yaml:"textfile_path"`

	// ParseDurationBuckets defines histogram buckets for parse duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	ParseDurationBuckets []float64 `yaml:"parse_duration_buckets"`
}
