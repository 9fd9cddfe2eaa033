package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "run <name> <command>",
	Short: "Run a shell command in a test container",
	Long: `Run a command through /bin/bash -c inside the container, streaming
its output. Extra arguments are joined with spaces.`,
	Example: `  tljh-itest run basic-tests 'systemctl status jupyterhub'`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), runRequest{
		Name:    args[0],
		Command: strings.Join(args[1:], " "),
	})
}
