package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/display"
	"github.com/teranos/astbuild/version"
)

func buildVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show astbuild version information",
		Long:  `Display version, build time, commit hash, builder schema version and platform information for the astbuild binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			info := version.Get()

			if jsonOutput {
				return display.OutputJSON(out, info)
			}
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Builders: %d\n", info.BuilderCount)
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	return cmd
}
