/*
Package cli provides the building blocks of the xrdscan command: output
formatters, result views of scan datasets, progress reporting, signal
handling and exit codes.

Output Formatting:

Results are rendered as text, JSON or CSV:

	report := &cli.ScanReport{}
	report.Add(path, datasets)
	if err := cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, report); err != nil {
		return err
	}

Text output uses the TextWriter interface and CSV output the Table
interface. JSON output encodes NaN as null through the Float type.

Progress Reporting:

	progress := cli.NewTerminalProgress(os.Stderr)
	progress.Start(int64(len(files)))
	for i, f := range files {
		// load f
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
