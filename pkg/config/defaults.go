package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default values for configuration fields.
const (
	// Loader defaults
	DefaultMaxFileSize int64 = 256 * 1024 * 1024
	DefaultUseMmap           = false

	// Cache defaults
	DefaultCacheEnabled      = true
	DefaultCacheBackend      = "memory"
	DefaultCacheMaxEntries   = 256
	DefaultCacheSQLitePath   = "~/.xrdscan/cache.db"
	DefaultCacheSQLiteDriver = "sqlite"
	DefaultCacheBusyTimeout  = 5 * time.Second
	DefaultCacheWALMode      = true

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsEnabled   = false
	DefaultMetricsNamespace = "xrdscan"
	DefaultMetricsSubsystem = "ras"
)

// DefaultParseDurationBuckets are the default histogram buckets, in seconds.
var DefaultParseDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// NewDefaultConfig returns a configuration with every field set to its
// default. YAML files are decoded on top of it, so boolean defaults of
// true survive keys that are absent from the file.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Loader: LoaderConfig{
			MaxFileSize: DefaultMaxFileSize,
			UseMmap:     DefaultUseMmap,
		},
		Cache: CacheConfig{
			Enabled: DefaultCacheEnabled,
			Backend: DefaultCacheBackend,
			Memory:  MemoryCacheConfig{MaxEntries: DefaultCacheMaxEntries},
			SQLite: SQLiteCacheConfig{
				Path:        DefaultCacheSQLitePath,
				Driver:      DefaultCacheSQLiteDriver,
				BusyTimeout: DefaultCacheBusyTimeout,
				WALMode:     DefaultCacheWALMode,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Metrics: MetricsConfig{
				Enabled:   DefaultMetricsEnabled,
				Namespace: DefaultMetricsNamespace,
				Subsystem: DefaultMetricsSubsystem,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with their defaults and
// expands a leading "~/" in the cache path.
func ApplyDefaults(cfg *Config) {
	// Loader defaults
	if cfg.Loader.MaxFileSize == 0 {
		cfg.Loader.MaxFileSize = DefaultMaxFileSize
	}

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Memory.MaxEntries == 0 {
		cfg.Cache.Memory.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.SQLite.Path == "" {
		cfg.Cache.SQLite.Path = DefaultCacheSQLitePath
	}
	cfg.Cache.SQLite.Path = expandHome(cfg.Cache.SQLite.Path)
	if cfg.Cache.SQLite.Driver == "" {
		cfg.Cache.SQLite.Driver = DefaultCacheSQLiteDriver
	}
	if cfg.Cache.SQLite.BusyTimeout == 0 {
		cfg.Cache.SQLite.BusyTimeout = DefaultCacheBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.ParseDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.ParseDurationBuckets = append([]float64(nil), DefaultParseDurationBuckets...)
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
