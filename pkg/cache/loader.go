package cache

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/xrdscan/pkg/ras"
)

// Loader loads the datasets of one scan file. *ras.Loader and
// *CachedLoader implement it.
type Loader interface {
	Load(ctx context.Context, path string) ([]*ras.Dataset, error)
}

// CachedLoader memoizes a ras.Loader. Files are keyed by the fingerprint of
// their contents, so an edited file is parsed again and a renamed one is
// not. Cache failures are logged and fall back to parsing.
type CachedLoader struct {
	loader   *ras.Loader
	store    Store
	name     string
	observer Observer
	logger   *slog.Logger
}

// NewCachedLoader wraps loader with store. name labels metrics, typically
// MemoryBackendName or SQLiteBackendName.
func NewCachedLoader(loader *ras.Loader, store Store, name string) *CachedLoader {
	return &CachedLoader{
		loader: loader,
		store:  store,
		name:   name,
		logger: slog.Default().With("component", "cache.loader"),
	}
}

// WithObserver registers an observer for hits and misses.
func (c *CachedLoader) WithObserver(o Observer) *CachedLoader {
	c.observer = o
	return c
}

// WithLogger sets the logger.
func (c *CachedLoader) WithLogger(logger *slog.Logger) *CachedLoader {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Load returns the cached datasets for the contents of path, parsing and
// storing them on a miss. Parse failures are not cached. Every call is
// reported to the ras.Loader observer, hit or miss.
func (c *CachedLoader) Load(ctx context.Context, path string) ([]*ras.Dataset, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		c.loader.Record(ctx, path, 0, nil, start, err)
		return nil, err
	}

	data, release, err := c.loader.ReadFile(path)
	if err != nil {
		c.loader.Record(ctx, path, 0, nil, start, err)
		return nil, err
	}
	defer release()

	key := Fingerprint(data)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache lookup failed", "file", path, "error", err)
	}
	if entry != nil {
		c.record(true)
		c.logger.DebugContext(ctx, "scan cache hit", "file", path, "key", key[:12])
		c.loader.Record(ctx, path, int64(len(data)), entry.Datasets, start, nil)
		return entry.Datasets, nil
	}
	c.record(false)

	datasets, err := c.loader.LoadBytes(ctx, path, data)
	if err != nil {
		return nil, err
	}

	entry = &Entry{
		Key:      key,
		Path:     path,
		Size:     int64(len(data)),
		Datasets: datasets,
	}
	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.WarnContext(ctx, "cache store failed", "file", path, "error", err)
	}
	return datasets, nil
}

func (c *CachedLoader) record(hit bool) {
	if c.observer == nil {
		return
	}
	if hit {
		c.observer.RecordCacheHit(c.name)
	} else {
		c.observer.RecordCacheMiss(c.name)
	}
}
