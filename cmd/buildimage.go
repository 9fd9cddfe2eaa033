package cmd

import (
	"github.com/spf13/cobra"
)

var buildImageCmd = &cobra.Command{
	Use:   "build-image",
	Short: "Build the systemd test image",
	Long: `Build the image named by the image config key from build_context.

Each --build-arg is passed to the engine as a separate --build-arg flag,
in the order given.`,
	Args: cobra.NoArgs,
	RunE: runBuildImage,
}

var buildArgs []string

func init() {
	buildImageCmd.Flags().StringArrayVar(&buildArgs, "build-arg", nil, "Build argument KEY=VALUE (repeatable)")
	rootCmd.AddCommand(buildImageCmd)
}

func runBuildImage(cmd *cobra.Command, args []string) error {
	return dispatch(cmd.Context(), cmd.OutOrStdout(), buildImageRequest{
		BuildArgs: append([]string(nil), buildArgs...),
	})
}
