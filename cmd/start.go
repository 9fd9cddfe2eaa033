package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start-container <name>",
	Short: "Start a fresh test container",
	Long: `Start a detached, privileged container from the configured image.
Any existing container with the same name is removed first.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

var startPipSpec string

func init() {
	startCmd.Flags().StringVar(&startPipSpec, "bootstrap-pip-spec", "", "Value for TLJH_BOOTSTRAP_PIP_SPEC inside the container")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), startContainerRequest{
		Name:             args[0],
		BootstrapPipSpec: startPipSpec,
	})
}
