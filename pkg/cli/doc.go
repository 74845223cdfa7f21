/*
Package cli provides helpers shared by the yaproxy commands.

Output Formatting:

Command results are printed as aligned text, JSON or CSV. Text and CSV need
data implementing Table:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, rows)

Progress Reporting:

Batch resolution reports progress on stderr so stdout stays machine readable:

	progress := cli.NewProgressReporter(os.Stderr, "Resolving")
	progress.Start(len(ids))
	progress.Increment(err != nil)
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode returns 2 for *ConfigError and 1 for any other error.
*/
package cli
