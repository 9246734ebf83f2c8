package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/xrdscan/pkg/cli"
	"mercator-hq/xrdscan/pkg/ras"
	"mercator-hq/xrdscan/pkg/telemetry/logging"
)

var showFlags struct {
	join      bool
	normalize bool
	progress  bool
}

var showCmd = &cobra.Command{
	Use:   "show FILE...",
	Short: "Summarize the scans in RAS files",
	Long: `Parse RAS files and summarize every scan segment.

Each segment is reported with its scan axis and range, counting time,
sample, timing, attenuator and the wavelength of the selected optics.
CSV output lists every data point instead of the summary.

Examples:
  # Summarize one file
  xrdscan show scan.ras

  # Join the segments of each file into one dataset
  xrdscan show --join scan.ras

  # Counts per second, corrected for attenuation, as CSV
  xrdscan show --normalize --format csv scan.ras

  # JSON for scripts
  xrdscan show --format json a.ras b.ras`,
	Args: minArgs(1),
	RunE: showScans,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVarP(&showFlags.join, "join", "j", false, "join the segments of each file into one dataset")
	showCmd.Flags().BoolVarP(&showFlags.normalize, "normalize", "n", false, "divide counts by count time and attenuation")
	showCmd.Flags().BoolVar(&showFlags.progress, "progress", false, "show a progress bar on a terminal")
}

func showScans(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd, "show")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	var progress cli.ProgressReporter = cli.NoProgress{}
	if showFlags.progress {
		progress = cli.NewTerminalProgress(os.Stderr)
	}
	progress.Start(int64(len(args)))

	report := &cli.ScanReport{}
	for i, path := range args {
		if err := a.ctx.Err(); err != nil {
			progress.Error(err)
			return err
		}

		datasets, err := a.loadScans(path)
		if err != nil {
			progress.Error(err)
			return cli.NewCommandError("show", err)
		}
		report.Add(path, datasets)
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	return a.write(report)
}

// loadScans loads path and applies the --join and --normalize options.
func (a *app) loadScans(path string) ([]*ras.Dataset, error) {
	ctx := logging.WithFile(a.ctx, path)

	datasets, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if showFlags.join && len(datasets) > 1 {
		joined, err := ras.Join(datasets)
		a.metrics.RecordJoin(err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		a.logger.DebugContext(ctx, "segments joined", "segments", len(datasets), "rows", joined.Len())
		datasets = []*ras.Dataset{joined}
	}

	if showFlags.normalize {
		for i, d := range datasets {
			normalized, err := d.Normalize()
			if err != nil {
				return nil, fmt.Errorf("%s: segment %d: %w", path, i, err)
			}
			datasets[i] = normalized
		}
	}
	return datasets, nil
}

// minArgs is cobra.MinimumNArgs reported as a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return cli.NewConfigError("args", err.Error())
		}
		return nil
	}
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return cli.NewConfigError("args", err.Error())
		}
		return nil
	}
}
