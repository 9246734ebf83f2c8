package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)
)

// SQLiteBackendName labels metrics recorded for a SQLiteStore.
const SQLiteBackendName = "sqlite"

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig configures a SQLiteStore.
type SQLiteConfig struct {
	// Path is the database file path. Parent directories are created.
	Path string

	// Driver is DriverModernc or DriverMattn.
	// Default: DriverModernc
	Driver string

	// BusyTimeout is how long to wait for a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging.
	WALMode bool
}

// SQLiteStore implements Store on a SQLite database, so parsed files
// survive across runs.
type SQLiteStore struct {
	db        *sql.DB
	config    SQLiteConfig
	logger    *slog.Logger
	mu        sync.RWMutex
	closeOnce sync.Once

	getStmt    *sql.Stmt
	touchStmt  *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	countStmt  *sql.Stmt
	pruneStmt  *sql.Stmt
	clearStmt  *sql.Stmt
	statsStmt  *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) the cache database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.Driver != DriverModernc && cfg.Driver != DriverMattn {
		return nil, fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer and the pragmas below are
	// per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: slog.Default().With("component", "cache.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("sqlite cache opened",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode,
	)
	return s, nil
}

// WithLogger sets the logger.
func (s *SQLiteStore) WithLogger(logger *slog.Logger) *SQLiteStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS scan_cache (
		key TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		codec_version INTEGER NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		last_used INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scan_cache_last_used ON scan_cache(last_used);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT path, size, codec_version, payload, created_at, last_used
		FROM scan_cache
		WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.touchStmt, err = s.db.Prepare(`UPDATE scan_cache SET last_used = ? WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare touch statement: %w", err)
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO scan_cache (key, path, size, codec_version, payload, created_at, last_used)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			path = excluded.path,
			size = excluded.size,
			codec_version = excluded.codec_version,
			payload = excluded.payload,
			last_used = excluded.last_used
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM scan_cache WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM scan_cache`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`DELETE FROM scan_cache WHERE last_used < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	s.clearStmt, err = s.db.Prepare(`DELETE FROM scan_cache`)
	if err != nil {
		return fmt.Errorf("failed to prepare clear statement: %w", err)
	}

	s.statsStmt, err = s.db.Prepare(`
		SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(MIN(last_used), 0), COALESCE(MAX(last_used), 0)
		FROM scan_cache
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats statement: %w", err)
	}

	return nil
}

// Get returns the entry under key, or nil on a miss. Entries written by an
// incompatible codec are removed and reported as misses.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry     = &Entry{Key: key}
		version   int
		payload   []byte
		createdAt int64
		lastUsed  int64
	)
	err := s.getStmt.QueryRowContext(ctx, key).Scan(
		&entry.Path,
		&entry.Size,
		&version,
		&payload,
		&createdAt,
		&lastUsed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entry: %w", err)
	}

	if version != codecVersion {
		s.logger.Debug("discarding cache entry from another codec version",
			"key", key,
			"version", version,
		)
		if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to delete stale cache entry: %w", err)
		}
		return nil, nil
	}

	entry.Datasets, err = decodeDatasets(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := s.touchStmt.ExecContext(ctx, now.UnixNano(), key); err != nil {
		return nil, fmt.Errorf("failed to update cache entry: %w", err)
	}
	entry.CreatedAt = time.Unix(0, createdAt)
	entry.LastUsed = now

	return entry, nil
}

// Put stores entry, replacing any entry with the same key.
func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	payload, err := encodeDatasets(entry.Datasets)
	if err != nil {
		return err
	}

	now := time.Now()
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.putStmt.ExecContext(ctx,
		entry.Key,
		entry.Path,
		entry.Size,
		codecVersion,
		payload,
		createdAt.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry under key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Prune removes entries last used before olderThan.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(n), nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.clearStmt.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(n), nil
}

// Stats summarizes the stored entries.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		st             Stats
		oldest, newest int64
	)
	if err := s.statsStmt.QueryRowContext(ctx).Scan(&st.Entries, &st.Bytes, &oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	if st.Entries > 0 {
		st.OldestUse = time.Unix(0, oldest)
		st.NewestUse = time.Unix(0, newest)
	}
	return st, nil
}

// Close closes the prepared statements and the database. It is safe to
// call more than once.
func (s *SQLiteStore) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for _, stmt := range []*sql.Stmt{
			s.getStmt, s.touchStmt, s.putStmt, s.deleteStmt,
			s.countStmt, s.pruneStmt, s.clearStmt, s.statsStmt,
		} {
			if stmt != nil {
				stmt.Close()
			}
		}
		closeErr = s.db.Close()
	})
	return closeErr
}
