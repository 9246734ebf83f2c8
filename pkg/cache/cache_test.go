package cache

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/xrdscan/pkg/config"
	"mercator-hq/xrdscan/pkg/ras"
	"mercator-hq/xrdscan/pkg/ras/rastest"
)

// recordingObserver counts cache activity.
type recordingObserver struct {
	mu        sync.Mutex
	hits      int
	misses    int
	evictions int
	size      int
}

func (o *recordingObserver) RecordCacheHit(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits++
}

func (o *recordingObserver) RecordCacheMiss(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.misses++
}

func (o *recordingObserver) RecordCacheEviction(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evictions++
}

func (o *recordingObserver) UpdateCacheSize(_ string, size int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.size = size
}

func testDatasets(t *testing.T) []*ras.Dataset {
	t.Helper()
	datasets, err := ras.Parse(rastest.File(rastest.DefaultSegment()))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return datasets
}

func testEntry(t *testing.T, key string) *Entry {
	t.Helper()
	return &Entry{Key: key, Path: key + ".ras", Size: 10, Datasets: testDatasets(t)}
}

// newTestSQLiteStore opens a store in a temporary directory, skipping when
// the cgo driver is unavailable.
func newTestSQLiteStore(t *testing.T, driver string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(SQLiteConfig{
		Path:    filepath.Join(t.TempDir(), "nested", "cache.db"),
		Driver:  driver,
		WALMode: true,
	})
	if err != nil {
		if driver == DriverMattn && strings.Contains(err.Error(), "cgo") {
			t.Skipf("sqlite3 driver unavailable: %v", err)
		}
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// storeFactories opens every Store implementation under test. Each factory
// runs inside its subtest so a skipped driver only skips that subtest.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory":         func(t *testing.T) Store { return NewMemoryStore(8) },
	"sqlite/modernc": func(t *testing.T) Store { return newTestSQLiteStore(t, DriverModernc) },
	"sqlite/mattn":   func(t *testing.T) Store { return newTestSQLiteStore(t, DriverMattn) },
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("scan"))
	if len(a) != 64 {
		t.Errorf("Fingerprint() length = %d, want 64", len(a))
	}
	if a != Fingerprint([]byte("scan")) {
		t.Error("Fingerprint() is not deterministic")
	}
	if a == Fingerprint([]byte("scan2")) {
		t.Error("different contents share a fingerprint")
	}
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			entry := testEntry(t, "k1")

			if err := store.Put(ctx, entry); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(ctx, "k1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got == nil {
				t.Fatal("Get() = nil, want entry")
			}
			if got.Path != "k1.ras" || got.Size != 10 {
				t.Errorf("Get() = %+v", got)
			}
			if len(got.Datasets) != 1 || !got.Datasets[0].Equal(entry.Datasets[0]) {
				t.Error("datasets changed in the round trip")
			}
			if got.CreatedAt.IsZero() || got.LastUsed.IsZero() {
				t.Error("timestamps not set")
			}
		})
	}
}

func TestStore_KeepsNaN(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			entry := testEntry(t, "nan")
			entry.Datasets[0].WavelengthResolution = math.NaN()

			if err := store.Put(ctx, entry); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			got, err := store.Get(ctx, "nan")
			if err != nil || got == nil {
				t.Fatalf("Get() = %v, %v", got, err)
			}
			if !math.IsNaN(got.Datasets[0].WavelengthResolution) {
				t.Errorf("WavelengthResolution = %v, want NaN", got.Datasets[0].WavelengthResolution)
			}
		})
	}
}

func TestStore_KeepsNegativeZero(t *testing.T) {
	tests := []struct {
		name string
		set  func(d *ras.Dataset)
		get  func(d *ras.Dataset) float64
	}{
		{
			name: "axis offset",
			get:  func(d *ras.Dataset) float64 { return d.Axis[ras.AxisIncidentMonochromator].Offset },
		},
		{
			name: "wavelength",
			set:  func(d *ras.Dataset) { d.Wavelength = math.Copysign(0, -1) },
			get:  func(d *ras.Dataset) float64 { return d.Wavelength },
		},
		{
			name: "header value",
			set: func(d *ras.Dataset) {
				d.Header["MEAS_COND_AXIS_OFFSET-1"] = ras.Value{Kind: ras.KindFloat, Float: math.Copysign(0, -1), Raw: "-0.0"}
			},
			get: func(d *ras.Dataset) float64 { return d.Header["MEAS_COND_AXIS_OFFSET-1"].Float },
		},
	}

	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					store := open(t)
					ctx := context.Background()

					datasets, err := ras.Parse(rastest.File(rastest.DefaultSegment().With("MEAS_COND_AXIS_OFFSET-1", "-0.0")))
					if err != nil {
						t.Fatalf("Parse() error = %v", err)
					}
					if tt.set != nil {
						tt.set(datasets[0])
					}
					if !math.Signbit(tt.get(datasets[0])) {
						t.Fatal("fixture value is not negative zero")
					}

					if err := store.Put(ctx, &Entry{Key: "negzero", Path: "negzero.ras", Size: 1, Datasets: datasets}); err != nil {
						t.Fatalf("Put() error = %v", err)
					}
					got, err := store.Get(ctx, "negzero")
					if err != nil || got == nil {
						t.Fatalf("Get() = %v, %v", got, err)
					}
					if v := tt.get(got.Datasets[0]); v != 0 || !math.Signbit(v) {
						t.Errorf("value = %v (signbit %v), want -0", v, math.Signbit(v))
					}
					if !got.Datasets[0].Equal(datasets[0]) {
						t.Error("cached dataset differs from a fresh parse")
					}
				})
			}
		})
	}
}

func TestStore_MissDeleteLen(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()

			got, err := store.Get(ctx, "absent")
			if err != nil || got != nil {
				t.Fatalf("Get(absent) = %v, %v; want nil, nil", got, err)
			}

			for _, key := range []string{"a", "b", "c"} {
				if err := store.Put(ctx, testEntry(t, key)); err != nil {
					t.Fatalf("Put(%s) error = %v", key, err)
				}
			}
			// Replacing an entry does not add one.
			if err := store.Put(ctx, testEntry(t, "a")); err != nil {
				t.Fatalf("Put(a) error = %v", err)
			}
			if n, _ := store.Len(ctx); n != 3 {
				t.Errorf("Len() = %d, want 3", n)
			}

			if err := store.Delete(ctx, "b"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := store.Delete(ctx, "b"); err != nil {
				t.Fatalf("second Delete() error = %v", err)
			}
			if n, _ := store.Len(ctx); n != 2 {
				t.Errorf("Len() after delete = %d, want 2", n)
			}

			n, err := store.Clear(ctx)
			if err != nil || n != 2 {
				t.Errorf("Clear() = %d, %v; want 2, nil", n, err)
			}
			if n, _ := store.Len(ctx); n != 0 {
				t.Errorf("Len() after clear = %d, want 0", n)
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			if err := store.Put(ctx, testEntry(t, "old")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			n, err := store.Prune(ctx, time.Now().Add(-time.Hour))
			if err != nil || n != 0 {
				t.Errorf("Prune(past) = %d, %v; want 0, nil", n, err)
			}

			n, err = store.Prune(ctx, time.Now().Add(time.Hour))
			if err != nil || n != 1 {
				t.Errorf("Prune(future) = %d, %v; want 1, nil", n, err)
			}
		})
	}
}

func TestStore_RejectsEmptyKey(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			if err := store.Put(ctx, &Entry{}); err == nil {
				t.Error("Put() with empty key should fail")
			}
			if err := store.Put(ctx, nil); err == nil {
				t.Error("Put(nil) should fail")
			}
			if _, err := store.Get(ctx, ""); err == nil {
				t.Error("Get(\"\") should fail")
			}
		})
	}
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	store := NewMemoryStore(2).WithObserver(obs)

	store.Put(ctx, testEntry(t, "a"))
	store.Put(ctx, testEntry(t, "b"))
	// Touch a so b becomes the eviction candidate.
	if got, _ := store.Get(ctx, "a"); got == nil {
		t.Fatal("expected a to be present")
	}
	store.Put(ctx, testEntry(t, "c"))

	if got, _ := store.Get(ctx, "b"); got != nil {
		t.Error("b should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if got, _ := store.Get(ctx, key); got == nil {
			t.Errorf("%s should be present", key)
		}
	}
	if obs.evictions != 1 {
		t.Errorf("evictions = %d, want 1", obs.evictions)
	}
	if obs.size != 2 {
		t.Errorf("size = %d, want 2", obs.size)
	}
}

func TestMemoryStore_CopiesDatasets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	entry := testEntry(t, "k")
	want := entry.Datasets[0].Y[0]

	store.Put(ctx, entry)
	entry.Datasets[0].Y[0] = -1

	got, _ := store.Get(ctx, "k")
	if got.Datasets[0].Y[0] != want {
		t.Errorf("stored dataset changed through the caller's copy: %v", got.Datasets[0].Y[0])
	}
	got.Datasets[0].Y[0] = -2
	again, _ := store.Get(ctx, "k")
	if again.Datasets[0].Y[0] != want {
		t.Errorf("stored dataset changed through a returned copy: %v", again.Datasets[0].Y[0])
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Put(ctx, testEntry(t, "persist")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	reopened, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "persist")
	if err != nil || got == nil {
		t.Fatalf("Get() after reopen = %v, %v", got, err)
	}
}

func TestSQLiteStore_DiscardsOtherCodecVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t, DriverModernc)

	if err := store.Put(ctx, testEntry(t, "v")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := store.db.Exec(`UPDATE scan_cache SET codec_version = ? WHERE key = ?`, codecVersion+1, "v"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := store.Get(ctx, "v")
	if err != nil || got != nil {
		t.Fatalf("Get() = %v, %v; want nil, nil", got, err)
	}
	if n, _ := store.Len(ctx); n != 0 {
		t.Errorf("Len() = %d, want stale entry removed", n)
	}
}

func TestNewSQLiteStore_Validation(t *testing.T) {
	if _, err := NewSQLiteStore(SQLiteConfig{}); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "postgres"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestNew(t *testing.T) {
	cfg := config.NewDefaultConfig().Cache

	cfg.Enabled = false
	store, name, err := New(cfg)
	if err != nil || store != nil || name != "" {
		t.Errorf("New(disabled) = %v, %q, %v", store, name, err)
	}

	cfg.Enabled = true
	store, name, err = New(cfg)
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok || name != MemoryBackendName {
		t.Errorf("New(memory) = %T, %q", store, name)
	}

	cfg.Backend = "sqlite"
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "cache.db")
	store, name, err = New(cfg)
	if err != nil {
		t.Fatalf("New(sqlite) error = %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok || name != SQLiteBackendName {
		t.Errorf("New(sqlite) = %T, %q", store, name)
	}

	cfg.Backend = "redis"
	if _, _, err := New(cfg); err == nil {
		t.Error("New(redis) should fail")
	}
}

func TestStore_Stats(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()

			st, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if st.Entries != 0 || st.Bytes != 0 || !st.OldestUse.IsZero() {
				t.Errorf("Stats() on empty store = %+v", st)
			}

			before := time.Now().Add(-time.Second)
			store.Put(ctx, testEntry(t, "a"))
			store.Put(ctx, testEntry(t, "b"))

			st, err = store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if st.Entries != 2 || st.Bytes != 20 {
				t.Errorf("Stats() = %+v, want 2 entries and 20 bytes", st)
			}
			if st.OldestUse.Before(before) || st.NewestUse.Before(st.OldestUse) {
				t.Errorf("Stats() times = %v, %v", st.OldestUse, st.NewestUse)
			}
		})
	}
}
