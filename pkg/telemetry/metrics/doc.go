// Package metrics provides Prometheus metrics for xrdscan.
//
// # Metrics Categories
//
//   - Loader Metrics: files by status, segments, rows, bytes, load duration, joins
//   - Cache Metrics: lookups by hit or miss, entries, and evictions of the
//     parse cache, plus a hit ratio for end-of-run logging
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	loader := ras.NewLoader().WithObserver(collector)
//	datasets, err := loader.Load(ctx, "scan.ras")
//
//	// At exit, write the registry for the node_exporter textfile collector.
//	if err := collector.Flush(); err != nil {
//		logger.Warn("metrics not written", "error", err)
//	}
//
// xrdscan is a short-lived command, so metrics are exported through
// prometheus.WriteToTextfile rather than an HTTP endpoint.
package metrics
