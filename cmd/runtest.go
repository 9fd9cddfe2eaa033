package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jupyterhub/tljh-itest/internal/app"
	"github.com/jupyterhub/tljh-itest/internal/harness"
)

var runTestCmd = &cobra.Command{
	Use:   "run-test <name> <files...>",
	Short: "Install TLJH in a fresh container and run tests",
	Long: `Run the full sequence in a container called <name>: start it, wait for
systemd, copy the sources, optionally install --upgrade-from first, run the
installer with --installer-args, then run pytest on <files> (relative to
integration-tests/). The first failing step stops the run.`,
	Example: `  tljh-itest run-test basic-tests test_hub.py test_simplest_server.py
  tljh-itest run-test --upgrade-from=0.2.0 --installer-args='--admin admin:admin' upgrade test_hub.py`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRunTest,
}

var (
	runTestInstallerArgs string
	runTestUpgradeFrom   string
	runTestPipSpec       string
)

func init() {
	runTestCmd.Flags().StringVar(&runTestInstallerArgs, "installer-args", "", "Arguments passed verbatim to bootstrap.py")
	runTestCmd.Flags().StringVar(&runTestUpgradeFrom, "upgrade-from", "", "Install this released version before the one under test")
	runTestCmd.Flags().StringVar(&runTestPipSpec, "bootstrap-pip-spec", "", "Value for TLJH_BOOTSTRAP_PIP_SPEC inside the container")
	rootCmd.AddCommand(runTestCmd)
}

func runRunTest(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), runTestRequest{
		Invocation: harness.Invocation{
			Image:            app.Default.Config.Image,
			TestName:         args[0],
			BootstrapPipSpec: runTestPipSpec,
			TestFiles:        append([]string(nil), args[1:]...),
			UpgradeFrom:      runTestUpgradeFrom,
			InstallerArgs:    runTestInstallerArgs,
		},
	})
}
