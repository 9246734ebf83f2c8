package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/xrdscan/pkg/cli"
	"mercator-hq/xrdscan/pkg/telemetry/logging"
)

var headersCmd = &cobra.Command{
	Use:   "headers FILE",
	Short: "Show header keys that differ between segments",
	Long: `Compare the headers of every segment in a RAS file and list the keys
whose values are not the same in all segments. Keys missing from a
segment are shown as <absent>.

Examples:
  xrdscan headers scan.ras
  xrdscan headers --format csv scan.ras`,
	Args: exactArgs(1),
	RunE: showHeaders,
}

func init() {
	rootCmd.AddCommand(headersCmd)
}

func showHeaders(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp(cmd, "headers")
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	path := args[0]
	datasets, err := a.loader.Load(logging.WithFile(a.ctx, path), path)
	if err != nil {
		return cli.NewCommandError("headers", err)
	}

	return a.write(cli.NewHeaderReport(path, datasets))
}
