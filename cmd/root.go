package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jupyterhub/tljh-itest/internal/app"
	"github.com/jupyterhub/tljh-itest/internal/logging"
)

var (
	verbose     bool
	jsonOutput  bool
	configPath  string
	runtimeName string
)

var rootCmd = &cobra.Command{
	Use:   "tljh-itest",
	Short: "Integration test harness for The Littlest JupyterHub",
	Long: `tljh-itest installs TLJH inside throwaway systemd containers and runs
the integration test suite against it.

A test run:
  - replaces any container with the test's name
  - waits until systemd inside answers
  - copies the bootstrap and integration-tests sources to /srv/src
  - optionally installs an older release first (--upgrade-from)
  - runs the installer, installs test requirements and runs pytest

Docker is used when present, otherwise podman.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)

		if err := app.Default.LoadConfig(configPath); err != nil {
			return err
		}
		if runtimeName != "" {
			app.Default.Config.Runtime = runtimeName
		}
		return nil
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which kills any running engine process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logging.UserError("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default tljh-itest.toml when present)")
	rootCmd.PersistentFlags().StringVar(&runtimeName, "runtime", "", "Container engine: auto, docker or podman")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
)
