package cache

import (
	"fmt"

	"mercator-hq/xrdscan/pkg/config"
)

// New opens the store selected by cfg and returns it with its metrics
// name. It returns a nil Store when caching is disabled.
func New(cfg config.CacheConfig) (Store, string, error) {
	if !cfg.Enabled {
		return nil, "", nil
	}

	switch cfg.Backend {
	case MemoryBackendName, "":
		return NewMemoryStore(cfg.Memory.MaxEntries), MemoryBackendName, nil
	case SQLiteBackendName:
		store, err := NewSQLiteStore(SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			BusyTimeout: cfg.SQLite.BusyTimeout,
			WALMode:     cfg.SQLite.WALMode,
		})
		if err != nil {
			return nil, "", err
		}
		return store, SQLiteBackendName, nil
	default:
		return nil, "", fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
