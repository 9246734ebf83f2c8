package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/xrdscan/pkg/cache"
	"mercator-hq/xrdscan/pkg/cli"
)

var cachePruneFlags struct {
	olderThan time.Duration
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parse cache",
	Long: `Inspect and maintain the cache of parsed scan files.

Parsed files are stored by the SHA-256 of their contents. With the sqlite
backend the cache persists between runs; the memory backend only lives
for a single command.

Subcommands:
  stats  - Show the number and size of cached files
  prune  - Remove entries not used recently
  clear  - Remove every entry

Examples:
  xrdscan cache stats
  xrdscan cache prune --older-than 168h
  xrdscan cache clear`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  exactArgs(0),
	RunE:  cacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cache entries not used recently",
	Args:  exactArgs(0),
	RunE:  cachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	Args:  exactArgs(0),
	RunE:  cacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd, cacheClearCmd)

	cachePruneCmd.Flags().DurationVar(&cachePruneFlags.olderThan, "older-than", 30*24*time.Hour, "remove entries last used longer ago than this")
}

// cacheStore returns the configured store or a usage error when caching is
// off.
func (a *app) cacheStore() (cache.Store, error) {
	if a.store == nil {
		return nil, cli.NewConfigError("cache.enabled", "the parse cache is disabled")
	}
	return a.store, nil
}

func cacheStats(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd, "cache stats")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	store, err := a.cacheStore()
	if err != nil {
		return err
	}
	st, err := store.Stats(a.ctx)
	if err != nil {
		return cli.NewCommandError("cache stats", err)
	}

	var path string
	if a.storeName == cache.SQLiteBackendName {
		path = a.cfg.Cache.SQLite.Path
	}
	return a.write(cli.NewCacheStatsReport(a.storeName, path, st))
}

func cachePrune(cmd *cobra.Command, args []string) (err error) {
	if cachePruneFlags.olderThan < 0 {
		return cli.NewConfigError("older-than", fmt.Sprintf("must not be negative, got %s", cachePruneFlags.olderThan))
	}

	a, err := newApp(cmd, "cache prune")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	store, err := a.cacheStore()
	if err != nil {
		return err
	}
	removed, err := store.Prune(a.ctx, time.Now().Add(-cachePruneFlags.olderThan))
	if err != nil {
		return cli.NewCommandError("cache prune", err)
	}

	a.logger.InfoContext(a.ctx, "cache pruned", "removed", removed, "older_than", cachePruneFlags.olderThan)
	return a.write(&cli.CacheChangeReport{Action: "prune", Removed: removed})
}

func cacheClear(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd, "cache clear")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	store, err := a.cacheStore()
	if err != nil {
		return err
	}
	removed, err := store.Clear(a.ctx)
	if err != nil {
		return cli.NewCommandError("cache clear", err)
	}

	a.logger.InfoContext(a.ctx, "cache cleared", "removed", removed)
	return a.write(&cli.CacheChangeReport{Action: "clear", Removed: removed})
}
