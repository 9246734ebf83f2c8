package ras

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/edsrzf/mmap-go"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// DefaultMaxFileSize bounds the size of a scan file (256MB).
const DefaultMaxFileSize int64 = 256 * 1024 * 1024

// Observer receives the outcome of every Load. The metrics package
// provides an implementation.
type Observer interface {
	ObserveLoad(bytes int64, segments int, rows int, duration time.Duration, err error)
}

// Loader reads scan files from disk and parses them.
type Loader struct {
	parser      *Parser
	maxFileSize int64
	useMmap     bool
	logger      *slog.Logger
	observer    Observer
}

// NewLoader creates a loader with default configuration.
func NewLoader() *Loader {
	return &Loader{
		parser:      NewParser(),
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default().With("component", "ras.loader"),
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (l *Loader) WithMaxFileSize(size int64) *Loader {
	l.maxFileSize = size
	return l
}

// WithMmap reads files through a read-only memory mapping instead of a
// heap copy.
func (l *Loader) WithMmap(enabled bool) *Loader {
	l.useMmap = enabled
	return l
}

// WithLogger sets the logger for the loader and its parser.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
		l.parser.WithLogger(logger)
	}
	return l
}

// WithObserver registers an observer for load outcomes.
func (l *Loader) WithObserver(o Observer) *Loader {
	l.observer = o
	return l
}

// Load reads and parses the file at path. Errors carry the path.
func (l *Loader) Load(ctx context.Context, path string) ([]*Dataset, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		l.observe(ctx, path, 0, nil, start, err)
		return nil, err
	}

	data, release, err := l.ReadFile(path)
	if err != nil {
		l.observe(ctx, path, 0, nil, start, err)
		return nil, err
	}
	defer release()

	return l.parse(ctx, path, data, start)
}

// LoadBytes parses data that was already read from path. The path only
// annotates errors and log entries.
func (l *Loader) LoadBytes(ctx context.Context, path string, data []byte) ([]*Dataset, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		l.observe(ctx, path, 0, nil, start, err)
		return nil, err
	}
	return l.parse(ctx, path, data, start)
}

func (l *Loader) parse(ctx context.Context, path string, data []byte, start time.Time) ([]*Dataset, error) {
	datasets, err := l.parser.Parse(data)
	if err != nil {
		err = rasErrors.WithFile(err, path)
		datasets = nil
	}
	l.observe(ctx, path, int64(len(data)), datasets, start, err)
	return datasets, err
}

// Record reports a load that was served without parsing, such as a cache
// hit, to the observer and the log as if Load had produced it.
func (l *Loader) Record(ctx context.Context, path string, size int64, datasets []*Dataset, start time.Time, err error) {
	l.observe(ctx, path, size, datasets, start, err)
}

func (l *Loader) observe(ctx context.Context, path string, size int64, datasets []*Dataset, start time.Time, err error) {
	duration := time.Since(start)

	rows := 0
	for _, d := range datasets {
		rows += d.Len()
	}
	if l.observer != nil {
		l.observer.ObserveLoad(size, len(datasets), rows, duration, err)
	}

	if err != nil {
		l.logger.DebugContext(ctx, "scan file rejected", "file", path, "error", err)
		return
	}
	l.logger.DebugContext(ctx, "scan file loaded",
		"file", path,
		"bytes", size,
		"segments", len(datasets),
		"rows", rows,
		"duration_ms", duration.Milliseconds(),
	)
}

// ReadFile returns the file contents and a function that releases them.
// The contents must not be used after release is called.
func (l *Loader) ReadFile(path string) (data []byte, release func(), err error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		return nil, noop, &rasErrors.IOError{File: path, Op: "stat", Err: err}
	}
	if info.IsDir() {
		return nil, noop, &rasErrors.IOError{File: path, Op: "read", Err: fmt.Errorf("is a directory")}
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return nil, noop, &rasErrors.IOError{
			File: path,
			Op:   "read",
			Err:  fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), l.maxFileSize),
		}
	}

	// Empty files cannot be mapped.
	if !l.useMmap || info.Size() == 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, noop, &rasErrors.IOError{File: path, Op: "read", Err: err}
		}
		return data, noop, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, noop, &rasErrors.IOError{File: path, Op: "open", Err: err}
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, noop, &rasErrors.IOError{File: path, Op: "mmap", Err: err}
	}
	return mapped, func() {
		if err := mapped.Unmap(); err != nil {
			l.logger.Warn("failed to unmap scan file", "file", path, "error", err)
		}
	}, nil
}

var defaultLoader = NewLoader()

// Load reads and parses the file at path with the default loader.
func Load(path string) ([]*Dataset, error) {
	return defaultLoader.Load(context.Background(), path)
}
