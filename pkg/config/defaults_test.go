package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults_ZeroConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Loader.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("expected max file size %d, got %d", DefaultMaxFileSize, cfg.Loader.MaxFileSize)
	}
	if cfg.Cache.Backend != DefaultCacheBackend {
		t.Errorf("expected backend %q, got %q", DefaultCacheBackend, cfg.Cache.Backend)
	}
	if cfg.Cache.Memory.MaxEntries != DefaultCacheMaxEntries {
		t.Errorf("expected max entries %d, got %d", DefaultCacheMaxEntries, cfg.Cache.Memory.MaxEntries)
	}
	if cfg.Cache.SQLite.Driver != DefaultCacheSQLiteDriver {
		t.Errorf("expected driver %q, got %q", DefaultCacheSQLiteDriver, cfg.Cache.SQLite.Driver)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultMetricsNamespace, cfg.Telemetry.Metrics.Namespace)
	}
	if len(cfg.Telemetry.Metrics.ParseDurationBuckets) != len(DefaultParseDurationBuckets) {
		t.Errorf("expected %d buckets, got %d", len(DefaultParseDurationBuckets), len(cfg.Telemetry.Metrics.ParseDurationBuckets))
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Cache: CacheConfig{Backend: "sqlite", SQLite: SQLiteCacheConfig{Path: "/data/cache.db"}},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "error"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("expected backend to be preserved, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.SQLite.Path != "/data/cache.db" {
		t.Errorf("expected path to be preserved, got %q", cfg.Cache.SQLite.Path)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("expected level to be preserved, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestApplyDefaults_DoesNotAliasBuckets(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.Metrics.ParseDurationBuckets[0] = 42

	if DefaultParseDurationBuckets[0] == 42 {
		t.Error("ApplyDefaults shared the default bucket slice")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/analyst")

	if got := expandHome("~/.xrdscan/cache.db"); got != "/home/analyst/.xrdscan/cache.db" {
		t.Errorf("unexpected expansion: %q", got)
	}
	if got := expandHome("/abs/cache.db"); got != "/abs/cache.db" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := expandHome("rel/~/x"); strings.HasPrefix(got, "/home") {
		t.Errorf("non-prefix tilde expanded: %q", got)
	}
}
