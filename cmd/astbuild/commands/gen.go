package commands

import (
	"github.com/spf13/cobra"
)

const genExamples = `  astbuild gen input.js                  # Builder code for a file
  echo '1 + 2' | astbuild                # gen is the default command
  astbuild gen tpl.js x='y + 1' z=foo    # Splice replacement fragments
  astbuild gen -f json tree.json -o out.js
  astbuild gen --provider probe -n t input.js`

func buildGenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [file|-] [name=expression...]",
		Short: "Generate builder code that constructs the input tree",
		Long: `Parse JavaScript (or ESTree JSON) and print the builder calls that
rebuild the same syntax tree.

Identifiers named in replacements are replaced by the parsed expression,
so the output doubles as a template: x='y + 1' turns every free x into
the builder code for y + 1.`,
		Example: genExamples,
		Args:    cobra.ArbitraryArgs,
		RunE:    runGen,
	}
	addGenFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write generated code to a file instead of stdout")
	return cmd
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, pairArgs := splitArgs(args)
	opts, err := resolveOptions(cmd, cfg, pairArgs)
	if err != nil {
		return err
	}
	gen, err := newGenerator(opts)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	_, code, err := gen.generate(data)
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, code)
}
