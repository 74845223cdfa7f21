package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/cli"
	"yaproxy-hq/yaproxy/pkg/server"
)

var resolveFlags struct {
	output string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <trackId>...",
	Short: "Resolve signed download links",
	Long: `Resolve signed MP3 download links for one or more tracks without starting
the server. Resolutions are written to the history log when it is enabled.

Examples:
  # Resolve a single track
  yaproxy resolve 38634572

  # Resolve several tracks as CSV
  yaproxy resolve 38634572 12345 --output csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFlags.output, "output", "o", "text", "output format (text, json, csv)")
	resolveCmd.RegisterFlagCompletionFunc("output", completeOutputFormat)
}

// resolution is one row of resolve output.
type resolution struct {
	TrackID      string `json:"trackId"`
	DownloadLink string `json:"downloadLink,omitempty"`
	Error        string `json:"error,omitempty"`
}

type resolutionTable []resolution

func (t resolutionTable) Header() []string {
	return []string{"TRACK", "LINK", "ERROR"}
}

func (t resolutionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{r.TrackID, r.DownloadLink, r.Error})
	}
	return rows
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(resolveFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tel, err := newTelemetry(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	app, err := server.NewApp(cfg, tel)
	if err != nil {
		tel.Shutdown(context.Background())
		return cli.NewCommandError("resolve", err)
	}
	defer app.Close(context.Background())

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	var progress *cli.SimpleProgress
	if len(args) > 1 {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "Resolving")
		progress.Start(len(args))
	}

	results := make(resolutionTable, 0, len(args))
	failed := 0
	for _, trackID := range args {
		if ctx.Err() != nil {
			break
		}

		row := resolution{TrackID: trackID}
		link, err := app.Resolver.Resolve(ctx, trackID)
		if err != nil {
			row.Error = err.Error()
			failed++
		} else {
			row.DownloadLink = link.DownloadLink
		}
		results = append(results, row)

		if progress != nil {
			progress.Increment(err != nil)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), results); err != nil {
		return cli.NewCommandError("resolve", err)
	}

	if err := ctx.Err(); err != nil {
		return cli.NewCommandError("resolve", err)
	}
	if failed > 0 {
		return cli.NewCommandError("resolve", fmt.Errorf("%d of %d tracks failed", failed, len(args)))
	}
	return nil
}
