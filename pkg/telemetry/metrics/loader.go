package metrics

import (
	"context"
	"errors"
	"time"

	"mercator-hq/xrdscan/pkg/config"
	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Load outcome labels.
const (
	StatusOK           = "ok"
	StatusFormat       = string(rasErrors.ErrorTypeFormat)
	StatusIncompatible = string(rasErrors.ErrorTypeIncompatible)
	StatusIO           = string(rasErrors.ErrorTypeIO)
	StatusCanceled     = "canceled"
	StatusError        = "error"
)

// Status maps an error returned by the ras package to a status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case rasErrors.IsFormat(err):
		return StatusFormat
	case rasErrors.IsIncompatible(err):
		return StatusIncompatible
	case rasErrors.IsIO(err):
		return StatusIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

// LoaderMetrics tracks scan file loading.
//
// Metrics:
//   - xrdscan_ras_files_total: Files loaded by status
//   - xrdscan_ras_segments_total: Segments parsed from successful loads
//   - xrdscan_ras_rows_total: Data rows parsed from successful loads
//   - xrdscan_ras_bytes_total: Bytes read
//   - xrdscan_ras_load_duration_seconds: Read plus parse time
//   - xrdscan_ras_joins_total: Join attempts by status
type LoaderMetrics struct {
	filesTotal    *prometheus.CounterVec
	segmentsTotal prometheus.Counter
	rowsTotal     prometheus.Counter
	bytesTotal    prometheus.Counter
	loadDuration  *prometheus.HistogramVec
	joinsTotal    *prometheus.CounterVec
}

// NewLoaderMetrics creates and registers loader metrics with the provided registry.
func NewLoaderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LoaderMetrics {
	lm := &LoaderMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of scan files loaded, by status",
			},
			[]string{"status"},
		),

		segmentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "segments_total",
				Help:      "Total number of scan segments parsed",
			},
		),

		rowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_total",
				Help:      "Total number of data rows parsed",
			},
		),

		bytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "bytes_total",
				Help:      "Total number of scan file bytes read",
			},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Time to read and parse a scan file",
				Buckets:   cfg.ParseDurationBuckets,
			},
			[]string{"status"},
		),

		joinsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "joins_total",
				Help:      "Total number of segment joins, by status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		lm.filesTotal,
		lm.segmentsTotal,
		lm.rowsTotal,
		lm.bytesTotal,
		lm.loadDuration,
		lm.joinsTotal,
	)

	return lm
}

// RecordLoad records one file load. Segment and row counts are only
// meaningful for successful loads and are ignored otherwise.
func (lm *LoaderMetrics) RecordLoad(status string, bytes int64, segments, rows int, duration time.Duration) {
	lm.filesTotal.WithLabelValues(status).Inc()
	lm.loadDuration.WithLabelValues(status).Observe(duration.Seconds())
	if bytes > 0 {
		lm.bytesTotal.Add(float64(bytes))
	}
	if status == StatusOK {
		lm.segmentsTotal.Add(float64(segments))
		lm.rowsTotal.Add(float64(rows))
	}
}

// RecordJoin records one join attempt.
func (lm *LoaderMetrics) RecordJoin(status string) {
	lm.joinsTotal.WithLabelValues(status).Inc()
}
