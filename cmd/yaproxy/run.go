package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/cli"
	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/server"
	"yaproxy-hq/yaproxy/pkg/telemetry"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the yaproxy HTTP gateway with the specified configuration.

The server listens on the configured address until SIGINT or SIGTERM, then
drains in-flight requests within server.shutdown_timeout.

Examples:
  # Start with default config
  yaproxy run

  # Start with custom config
  yaproxy run --config /etc/yaproxy/config.yaml

  # Override listen address
  yaproxy run --listen 0.0.0.0:8080

  # Validate config without starting server
  yaproxy run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", true, "reload the config file when it changes")
	runCmd.RegisterFlagCompletionFunc("log-level", completeLogLevel)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	tel, err := newTelemetry(cfg, os.Stdout)
	if err != nil {
		return err
	}

	app, err := server.NewApp(cfg, tel)
	if err != nil {
		tel.Shutdown(context.Background())
		return cli.NewCommandError("run", err)
	}
	defer app.Close(context.Background())

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if runFlags.watch {
		startConfigWatcher(ctx, tel)
	}

	printBanner(cmd, cfg)

	if err := app.Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startConfigWatcher reloads the configuration file on change. Only the log
// level is applied live; other settings take effect on restart.
func startConfigWatcher(ctx context.Context, tel *telemetry.Telemetry) {
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) {
		return
	}

	logger := tel.Logger
	watcher, err := config.NewWatcher(cfgFile, 0, logger)
	if err != nil {
		logger.Warn("config watcher disabled", "error", err)
		return
	}

	config.OnReload(func(c *config.Config) {
		if err := tel.SetLogLevel(c.Telemetry.Logging.Level); err != nil {
			logger.Warn("ignoring reloaded log level", "error", err)
			return
		}
		logger.Info("log level applied", "level", c.Telemetry.Logging.Level)
	})

	go func() {
		if err := watcher.Watch(ctx); err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
		watcher.Stop()
	}()
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	addr := cfg.Server.ListenAddress

	fmt.Fprintf(out, "yaproxy v%s\n", Version)
	fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	fmt.Fprintf(out, "✓ Upstream: %s\n", cfg.Upstream.BaseURL)
	if cfg.History.Enabled {
		fmt.Fprintf(out, "✓ History: %s (retention %d days)\n", cfg.History.Backend, cfg.History.Retention.Days)
	}
	fmt.Fprintf(out, "✓ Listening on %s\n", addr)
	fmt.Fprintf(out, "✓ Health endpoint: http://%s%s\n", addr, cfg.Telemetry.Health.LivenessPath)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
