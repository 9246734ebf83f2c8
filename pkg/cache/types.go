package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"mercator-hq/xrdscan/pkg/ras"
)

// Store persists parsed scan files keyed by the fingerprint of their bytes.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry stored under key. It returns nil, nil on a miss.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores entry, replacing any entry with the same key.
	Put(ctx context.Context, entry *Entry) error

	// Delete removes the entry under key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Prune removes entries last used before olderThan and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int, error)

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats summarizes the stored entries.
	Stats(ctx context.Context) (Stats, error)

	// Close releases resources held by the store.
	Close() error
}

// Entry is one cached file.
type Entry struct {
	// Key is the Fingerprint of the file contents.
	Key string

	// Path is the path the file was last loaded from. It is informational;
	// identical contents at two paths share one entry.
	Path string

	// Size is the file size in bytes.
	Size int64

	// Datasets are the parsed segments, in file order.
	Datasets []*ras.Dataset

	// CreatedAt is when the entry was first stored.
	CreatedAt time.Time

	// LastUsed is when the entry was last stored or read.
	LastUsed time.Time
}

// Stats summarizes a Store.
type Stats struct {
	Entries int
	// Bytes is the total size of the source files, not of the store.
	Bytes int64
	// OldestUse and NewestUse are zero when the store is empty.
	OldestUse time.Time
	NewestUse time.Time
}

// Observer receives cache activity. The metrics collector implements it.
type Observer interface {
	RecordCacheHit(cacheName string)
	RecordCacheMiss(cacheName string)
	RecordCacheEviction(cacheName string)
	UpdateCacheSize(cacheName string, size int)
}

// Fingerprint returns the hex SHA-256 digest of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func cloneDatasets(in []*ras.Dataset) []*ras.Dataset {
	out := make([]*ras.Dataset, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

func (e *Entry) clone() *Entry {
	out := *e
	out.Datasets = cloneDatasets(e.Datasets)
	return &out
}
