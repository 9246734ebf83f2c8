package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mercator-hq/xrdscan/pkg/cache"
)

// CacheCheck verifies that store answers queries. A nil store is reported
// as disabled.
func CacheCheck(store cache.Store) CheckFunc {
	return func(ctx context.Context) error {
		if store == nil {
			return ErrDisabled
		}
		if _, err := store.Len(ctx); err != nil {
			return fmt.Errorf("cache query failed: %w", err)
		}
		return nil
	}
}

// TextfileCheck verifies that the directory of a metrics textfile exists
// and accepts new files. An empty path is reported as disabled.
func TextfileCheck(path string) CheckFunc {
	return func(ctx context.Context) error {
		if path == "" {
			return ErrDisabled
		}
		f, err := os.CreateTemp(filepath.Dir(path), ".xrdscan-doctor-*")
		if err != nil {
			return fmt.Errorf("metrics directory not writable: %w", err)
		}
		name := f.Name()
		f.Close()
		return os.Remove(name)
	}
}
