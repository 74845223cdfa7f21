package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/cli"
	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/telemetry"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "yaproxy",
	Short: "yaproxy - Yandex Music API gateway",
	Long: `yaproxy is an HTTP gateway in front of the Yandex Music API.

It injects a server-side OAuth token into upstream calls and provides:
  - Pass-through of account, track, liked tracks, supplement and lyrics data
  - Signed MP3 download link resolution
  - An optional history of resolutions with scheduled retention
  - Prometheus metrics, health probes and OpenTelemetry tracing

The OAuth token is read from YANDEX_MUSIC_TOKEN (a .env file in the working
directory is loaded automatically).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file with .env and environment
// overrides, validates it and installs it as the global configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// newTelemetry builds telemetry for a command. Logs go to w; --verbose
// forces debug level.
func newTelemetry(cfg *config.Config, w io.Writer) (*telemetry.Telemetry, error) {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	tel, err := telemetry.New(&cfg.Telemetry, telemetry.Options{
		Version:   Version,
		Secrets:   []string{cfg.Upstream.Token},
		LogWriter: w,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return tel, nil
}
