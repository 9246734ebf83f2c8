package metrics

import (
	"fmt"
	"time"

	"mercator-hq/xrdscan/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every metric xrdscan records.
// It satisfies ras.Observer for file loads and cache.Observer for cache
// activity. A disabled collector accepts every call and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	loaderMetrics *LoaderMetrics
	cacheMetrics  *CacheMetrics
}

// NewCollector creates a collector registered on registry. If registry is
// nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "xrdscan",
//		Subsystem: "ras",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		cfg.ParseDurationBuckets = append([]float64(nil), config.DefaultParseDurationBuckets...)
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		loaderMetrics: NewLoaderMetrics(cfg, registry),
		cacheMetrics:  NewCacheMetrics(cfg, registry),
	}
}

// ObserveLoad records the outcome of loading one scan file.
func (c *Collector) ObserveLoad(bytes int64, segments, rows int, duration time.Duration, err error) {
	if !c.config.Enabled {
		return
	}

	c.loaderMetrics.RecordLoad(Status(err), bytes, segments, rows, duration)
}

// RecordJoin records an attempt to join the segments of one file.
func (c *Collector) RecordJoin(err error) {
	if !c.config.Enabled {
		return
	}

	c.loaderMetrics.RecordJoin(Status(err))
}

// RecordCacheHit records a cache hit.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordLookup(cacheName, CacheHit)
}

// RecordCacheMiss records a cache miss.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordLookup(cacheName, CacheMiss)
}

// RecordCacheEviction records a cache eviction.
func (c *Collector) RecordCacheEviction(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordEviction(cacheName)
}

// UpdateCacheSize updates the current size of a cache.
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.SetEntries(cacheName, size)
}

// CacheHitRatio returns the share of lookups on cacheName that hit. It is
// 0 when metrics are disabled or nothing was looked up.
func (c *Collector) CacheHitRatio(cacheName string) float64 {
	return c.cacheMetrics.HitRatio(cacheName)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Flush writes the collected metrics to the configured textfile path, for
// pickup by the node_exporter textfile collector. It is a no-op when
// metrics are disabled or no path is configured.
func (c *Collector) Flush() error {
	if !c.config.Enabled || c.config.TextfilePath == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.config.TextfilePath, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", c.config.TextfilePath, err)
	}
	return nil
}
