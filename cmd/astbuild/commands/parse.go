package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/jsprint"
)

func buildParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the syntax tree of the input as ESTree JSON",
		Long: `Parse the input and print its ESTree JSON, the same form gen accepts
with --format json. With --print the tree is printed back as canonical
JavaScript instead.`,
		Example: `  astbuild parse input.js > tree.json
  astbuild parse --print input.js
  astbuild parse -f json --print tree.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().StringP("format", "f", "", "Input format: js or json (default from config)")
	cmd.Flags().BoolP("print", "p", false, "Print canonical JavaScript instead of JSON")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format := cfg.Input.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	printJS, _ := cmd.Flags().GetBool("print")
	output, _ := cmd.Flags().GetString("output")

	path, _ := splitArgs(args)
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	tree, err := parseInput(data, format)
	if err != nil {
		return err
	}

	if printJS {
		text, err := jsprint.Print(tree)
		if err != nil {
			return err
		}
		return writeOutput(cmd, output, text)
	}

	encoded, err := estree.EncodeJSON(tree)
	if err != nil {
		return err
	}
	return writeOutput(cmd, output, string(encoded)+"\n")
}
