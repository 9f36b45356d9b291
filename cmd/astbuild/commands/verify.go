package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/verify"
)

func buildVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [file|-]",
		Short: "Check that generated builder code rebuilds its input",
		Long: `Generate builder code for the input, evaluate it against the builder
library and compare the rebuilt tree with the parsed input.

Both trees are printed canonically; a mismatch is reported as a unified
diff. Replacements change the tree on purpose and are not accepted here.`,
		Example: `  astbuild verify input.js
  astbuild verify -f json tree.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}
	addGenFlags(cmd)
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, _ := splitArgs(args)
	opts, err := resolveOptions(cmd, cfg, nil)
	if err != nil {
		return err
	}
	if len(opts.pairs) > 0 {
		return errors.WithHint(
			errors.Newf("verify does not accept replacements (%d given)", len(opts.pairs)),
			"replacements change the tree; clear --replace and replace.pairs")
	}
	gen, err := newGenerator(opts)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	tree, code, err := gen.generate(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result, err := verify.New(builders.Default(), opts.cfg.Builder.Namespace).Verify(tree, code)
	if err != nil {
		if result != nil && result.Diff != "" {
			pterm.Error.WithWriter(out).Println("Generated code does not rebuild the input")
			pterm.Fprint(out, result.Diff)
		}
		return err
	}

	pterm.Success.WithWriter(out).Printfln("Generated code rebuilds %s", displayName(path))
	return nil
}

func displayName(path string) string {
	if path == "-" || path == "" {
		return "standard input"
	}
	return path
}
