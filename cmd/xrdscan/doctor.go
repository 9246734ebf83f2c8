package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/xrdscan/pkg/cli"
	"mercator-hq/xrdscan/pkg/telemetry/health"
)

var doctorFlags struct {
	timeout time.Duration
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration, cache and metrics output",
	Long: `Run self-checks against the current configuration.

Checks:
  config   - the configuration file and environment overrides are valid
  cache    - the configured cache backend opens and answers queries
  metrics  - the metrics textfile directory is writable

A disabled component is reported as disabled, not as a failure.

Examples:
  xrdscan doctor
  xrdscan doctor --config /etc/xrdscan.yaml --format json`,
	Args: exactArgs(0),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().DurationVar(&doctorFlags.timeout, "timeout", 5*time.Second, "timeout for each check")
}

func runDoctor(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd, "doctor")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	checker := health.New(doctorFlags.timeout)
	checker.Register("config", func(context.Context) error { return nil })
	checker.Register("cache", func(ctx context.Context) error {
		if a.cacheErr != nil {
			return a.cacheErr
		}
		return health.CacheCheck(a.store)(ctx)
	})
	metricsPath := ""
	if a.cfg.Telemetry.Metrics.Enabled {
		metricsPath = a.cfg.Telemetry.Metrics.TextfilePath
	}
	checker.Register("metrics", health.TextfileCheck(metricsPath))

	report := checker.Run(a.ctx)
	for _, c := range report.Checks {
		a.logger.DebugContext(a.ctx, "check finished", "check", c.Name, "status", c.Status, "duration", c.Duration)
	}

	if err := a.write(doctorReport{report}); err != nil {
		return err
	}
	if !report.Healthy() {
		return cli.NewCommandError("doctor", fmt.Errorf("one or more checks failed"))
	}
	return nil
}

// doctorReport renders a health.Report for the output formatters.
type doctorReport struct {
	health.Report
}

func (r doctorReport) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Status, c.Message)
	}
	fmt.Fprintf(tw, "\nstatus: %s\n", r.Status)
	return tw.Flush()
}

func (r doctorReport) Header() []string {
	return []string{"check", "status", "message", "duration_ms"}
}

func (r doctorReport) Rows() [][]string {
	rows := make([][]string, len(r.Checks))
	for i, c := range r.Checks {
		rows[i] = []string{c.Name, c.Status, c.Message, fmt.Sprintf("%.3f", float64(c.Duration)/float64(time.Millisecond))}
	}
	return rows
}
