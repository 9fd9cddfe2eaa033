package cmd

import (
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy <name> <src> <dest>",
	Short: "Copy a host path into a test container",
	Args:  cobra.ExactArgs(3),
	RunE:  runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), copyRequest{
		Name: args[0],
		Src:  args[1],
		Dest: args[2],
	})
}
