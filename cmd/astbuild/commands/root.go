// Package commands implements the astbuild command line.
package commands

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/logger"
)

// NewRootCommand assembles the astbuild command tree. The root command
// runs gen, so `astbuild input.js` and `astbuild gen input.js` agree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "astbuild",
		Short: "astbuild - Generate ESTree builder code from JavaScript",
		Long: `astbuild - Generate ESTree builder code from JavaScript.

astbuild reads JavaScript (or ESTree JSON) and prints the builder calls
that construct the same syntax tree, e.g. 1 + 2 becomes
b.binaryExpression('+', b.literal(1), b.literal(2)).

Available commands:
  gen        - Generate builder code (default)
  verify     - Check that generated code rebuilds its input
  parse      - Print the ESTree JSON of the input
  signatures - Inspect and generate builder signature tables
  watch      - Regenerate on every change of the input file
  config     - Manage astbuild configuration
  version    - Show version information

Examples:
  astbuild input.js                 # Builder code for a file
  astbuild gen tpl.js x='y + 1'     # Replace x with y + 1
  astbuild verify input.js          # Round-trip check
  astbuild signatures list          # Show builder parameters`,
		Example:       genExamples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonOutput, _ := cmd.Flags().GetBool("log-json")
			if err := logger.InitializeWithWriter(jsonOutput, verbosity, cmd.ErrOrStderr()); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
		RunE: runGen,
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().StringP("config", "c", "", "Config file merged above the searched ones")

	addGenFlags(root)
	root.Flags().StringP("output", "o", "", "Write generated code to a file instead of stdout")

	root.AddCommand(buildGenCommand())
	root.AddCommand(buildVerifyCommand())
	root.AddCommand(buildParseCommand())
	root.AddCommand(buildSignaturesCommand())
	root.AddCommand(buildWatchCommand())
	root.AddCommand(buildConfigCommand())
	root.AddCommand(buildVersionCommand())
	return root
}

// ReportError prints err with its hints. Details are printed too, except
// for verification mismatches whose diff the verify command already shows.
func ReportError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	if !errors.Is(err, errors.ErrVerifyMismatch) {
		if details := errors.FlattenDetails(err); details != "" {
			pterm.Fprintln(w, details)
		}
	}
	if hints := errors.FlattenHints(err); hints != "" {
		pterm.Info.WithWriter(w).Println(hints)
	}
}
