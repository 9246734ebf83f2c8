package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/xrdscan/pkg/cache"
	"mercator-hq/xrdscan/pkg/cli"
	"mercator-hq/xrdscan/pkg/config"
	"mercator-hq/xrdscan/pkg/ras"
	"mercator-hq/xrdscan/pkg/telemetry/logging"
	"mercator-hq/xrdscan/pkg/telemetry/metrics"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	noCache      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "xrdscan",
	Short: "xrdscan - Rigaku RAS scan file reader",
	Long: `xrdscan reads Rigaku RAS X-ray diffraction scan files.

It parses every segment of a file into a dataset and reports:
  - Scan axis, range and counting statistics
  - Sample, timing and attenuator information
  - Wavelength, resolution and angular divergence of the optics
  - Header keys that differ between segments

Parsed files are cached by content so repeated runs skip parsing.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "xrdscan.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "parse every file even if a cached result exists")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json, csv")

	// Usage mistakes map to their own exit code.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewConfigError("flags", err.Error())
	})
}

// app holds everything a command needs, built from the configuration.
type app struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *logging.Logger
	metrics   *metrics.Collector
	loader    cache.Loader
	store     cache.Store
	storeName string
	cacheErr  error
	format    cli.OutputFormat
	out       io.Writer
}

// newApp loads configuration and wires the loader, cache and telemetry for
// the named command. The caller must Close the returned app.
func newApp(cmd *cobra.Command, command string) (*app, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	config.SetConfig(cfg)

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithCommand(ctx, command)

	a := &app{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		format:  format,
		out:     cmd.OutOrStdout(),
	}

	rasLoader := ras.NewLoader().
		WithMaxFileSize(cfg.Loader.MaxFileSize).
		WithMmap(cfg.Loader.UseMmap).
		WithLogger(logger.Slog()).
		WithObserver(a.metrics)
	a.loader = rasLoader

	store, name, err := cache.New(cfg.Cache)
	if err != nil {
		logger.WarnContext(ctx, "cache unavailable, parsing without it", "backend", cfg.Cache.Backend, "error", err)
		a.cacheErr = err
	}
	if store != nil {
		switch s := store.(type) {
		case *cache.MemoryStore:
			s.WithObserver(a.metrics)
		case *cache.SQLiteStore:
			s.WithLogger(logger.Slog())
		}
		a.store, a.storeName = store, name
		a.loader = cache.NewCachedLoader(rasLoader, store, name).
			WithObserver(a.metrics).
			WithLogger(logger.Slog())
	}

	logger.DebugContext(ctx, "configuration loaded",
		"config", cfgFile,
		"cache", a.storeName,
		"mmap", cfg.Loader.UseMmap,
	)
	return a, nil
}

// write renders result in the selected output format.
func (a *app) write(result any) error {
	return cli.NewFormatter(a.format).FormatTo(a.out, result)
}

// Close flushes metrics and closes the cache.
func (a *app) Close() error {
	if a.store != nil && a.cfg.Telemetry.Metrics.Enabled {
		a.logger.DebugContext(a.ctx, "cache summary", "cache", a.storeName, "hit_ratio", a.metrics.CacheHitRatio(a.storeName))
	}

	var errs []error
	if err := a.metrics.Flush(); err != nil {
		errs = append(errs, err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

// closeApp closes a and keeps the first error.
func closeApp(a *app, err *error) {
	if cerr := a.Close(); cerr != nil {
		a.logger.WarnContext(a.ctx, "shutdown incomplete", "error", cerr)
		if *err == nil {
			*err = cerr
		}
	}
}
