// Package cache memoizes parsed scan files.
//
// Entries are keyed by the SHA-256 fingerprint of the file contents. Two
// stores are provided:
//
//   - MemoryStore: bounded, least recently used eviction, lives for one process
//   - SQLiteStore: persistent, on modernc.org/sqlite ("sqlite") or
//     github.com/mattn/go-sqlite3 ("sqlite3")
//
// CachedLoader puts a Store in front of a ras.Loader:
//
//	store, err := cache.NewSQLiteStore(cache.SQLiteConfig{Path: "cache.db"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	loader := cache.NewCachedLoader(ras.NewLoader(), store, cache.SQLiteBackendName)
//	datasets, err := loader.Load(ctx, "scan.ras")
//
// Datasets are stored with encoding/gob so NaN values come back bit for bit.
package cache
