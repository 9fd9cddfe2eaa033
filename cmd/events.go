package cmd

import (
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <name>",
	Short: "Display the run journal for a test",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvents,
}

var (
	eventsJSON  bool
	eventsClear bool
)

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json-lines", false, "Output events as JSON lines")
	eventsCmd.Flags().BoolVar(&eventsClear, "clear", false, "Delete the journal instead of printing it")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), eventsRequest{
		Name:  args[0],
		JSON:  eventsJSON,
		Clear: eventsClear,
	})
}
