package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration file, .env and environment overrides, validate the
result and print a summary. The OAuth token is redacted.

Examples:
  # Validate the default config
  yaproxy validate

  # Validate a specific file
  yaproxy validate --config /etc/yaproxy/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", cfgFile)
	fmt.Fprintf(out, "  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "  Upstream:       %s\n", cfg.Upstream.BaseURL)
	fmt.Fprintf(out, "  Token:          %s\n", logging.RedactToken(cfg.Upstream.Token))

	if cfg.History.Enabled {
		fmt.Fprintf(out, "  History:        %s", cfg.History.Backend)
		if cfg.History.Backend != "memory" {
			fmt.Fprintf(out, " (%s)", cfg.History.SQLite.Path)
		}
		fmt.Fprintf(out, ", retention %d days, schedule %q\n", cfg.History.Retention.Days, cfg.History.Retention.Schedule)
	} else {
		fmt.Fprintln(out, "  History:        disabled")
	}

	fmt.Fprintf(out, "  Log level:      %s\n", cfg.Telemetry.Logging.Level)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics:        %s\n", cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Tracing.Enabled {
		fmt.Fprintln(out, "  Tracing:        enabled")
	}
	return nil
}
