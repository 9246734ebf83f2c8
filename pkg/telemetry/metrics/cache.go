package metrics

import (
	"mercator-hq/xrdscan/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// CacheMetrics tracks the parse cache. Every series is labelled with the
// backend name ("memory" or "sqlite").
//
// Metrics:
//   - xrdscan_ras_cache_lookups_total{cache,result}: lookups by hit or miss
//   - xrdscan_ras_cache_entries{cache}: entries held by the store
//   - xrdscan_ras_cache_evictions_total{cache}: entries dropped to make room
type CacheMetrics struct {
	lookupsTotal   *prometheus.CounterVec
	entries        *prometheus.GaugeVec
	evictionsTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}

	cm := &CacheMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("cache_lookups_total", "Parsed-file cache lookups, by result")),
			[]string{"cache", "result"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts(opts("cache_entries", "Parsed files held by the cache")),
			[]string{"cache"},
		),
		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("cache_evictions_total", "Parsed files evicted from a full cache")),
			[]string{"cache"},
		),
	}

	registry.MustRegister(cm.lookupsTotal, cm.entries, cm.evictionsTotal)
	return cm
}

// RecordLookup counts one lookup; result is CacheHit or CacheMiss.
func (cm *CacheMetrics) RecordLookup(cacheName, result string) {
	cm.lookupsTotal.WithLabelValues(cacheName, result).Inc()
}

// SetEntries sets the number of entries held by a cache.
func (cm *CacheMetrics) SetEntries(cacheName string, n int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(n))
}

// RecordEviction counts one entry dropped to make room.
func (cm *CacheMetrics) RecordEviction(cacheName string) {
	cm.evictionsTotal.WithLabelValues(cacheName).Inc()
}

// HitRatio returns hits over all lookups for a cache, or 0 before the
// first lookup.
func (cm *CacheMetrics) HitRatio(cacheName string) float64 {
	hits := counterValue(cm.lookupsTotal.WithLabelValues(cacheName, CacheHit))
	misses := counterValue(cm.lookupsTotal.WithLabelValues(cacheName, CacheMiss))
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
