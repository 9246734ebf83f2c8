package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/xrdscan/pkg/ras/rastest"
)

// execute runs the root command with args against a private cache and
// returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgFile = filepath.Join(dir, "missing.yaml")
	verbose = false
	noCache = false
	outputFormat = "text"
	showFlags.join = false
	showFlags.normalize = false
	showFlags.progress = false
	cachePruneFlags.olderThan = 0
	doctorFlags.timeout = 5 * time.Second

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// useSQLiteCache points the cache at a database shared by every execute
// call in the test.
func useSQLiteCache(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("XRDSCAN_CACHE_BACKEND", "sqlite")
	t.Setenv("XRDSCAN_CACHE_SQLITE_PATH", path)
	return path
}

func twoSegmentFile(t *testing.T) string {
	t.Helper()
	seg := rastest.DefaultSegment()
	return rastest.WriteFile(t, "two.ras", rastest.File(
		seg,
		seg.With("FILE_SAMPLE", "Si wafer, rotated").WithRows("11.0000 900 1.0000"),
	))
}
