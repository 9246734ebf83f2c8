// Package telemetry groups the observability packages of xrdscan.
//
// # Components
//
//   - logging: slog-based structured logging with run, command and file
//     fields taken from the context
//   - metrics: Prometheus counters and histograms for file loads, joins and
//     the parse cache, flushed to a node_exporter textfile
//   - health: self-checks behind the doctor command
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	defer collector.Flush()
//
//	loader := ras.NewLoader().
//		WithLogger(logger.Slog()).
//		WithObserver(collector)
//
// Logs are written to stderr so that command output on stdout stays
// machine readable.
package telemetry
