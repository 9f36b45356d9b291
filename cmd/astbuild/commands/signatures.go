package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/logger"
	"github.com/teranos/astbuild/signature"
)

func buildSignaturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "signatures",
		Aliases: []string{"sig"},
		Short:   "Inspect and generate builder signature tables",
		Long: `A signature is the ordered list of build parameters of a node kind.
gen passes a node's fields to its builder in signature order.

Examples:
  astbuild signatures list                       # Table from the embedded schema
  astbuild signatures list --provider probe      # Discover by probing builders
  astbuild signatures list BinaryExpression      # Selected kinds only
  astbuild signatures generate -o sigs.toml      # Bootstrap a static table`,
	}

	list := &cobra.Command{
		Use:   "list [kind...]",
		Short: "Show the signature of every node kind",
		RunE:  runSignaturesList,
	}
	list.Flags().String("provider", "", "Signature provider: static, probe or chain")
	list.Flags().String("signature-file", "", "TOML signature table used by the static provider")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Probe every builder and write a TOML signature table",
		Long: `Probe every builder of the embedded library and write the discovered
signatures as a table usable with --signature-file. Kinds whose builder
takes no parameters are taken from the embedded schema.`,
		Args: cobra.NoArgs,
		RunE: runSignaturesGenerate,
	}
	generate.Flags().StringP("output", "o", "", "Write the table to a file instead of stdout")

	cmd.AddCommand(list)
	cmd.AddCommand(generate)
	return cmd
}

func runSignaturesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(cmd, cfg, nil)
	if err != nil {
		return err
	}
	provider, err := newProvider(opts.cfg.Builder)
	if err != nil {
		return err
	}
	resolver := signature.NewResolver(provider)

	kinds := args
	if len(kinds) == 0 {
		kinds = builders.Default().Kinds()
	}

	data := [][]string{{"Kind", "Builder", "Parameters"}}
	for _, kind := range kinds {
		params, err := resolver.Resolve(kind)
		if err != nil {
			return errors.Wrapf(err, "provider %s", provider.Name())
		}
		data = append(data, []string{kind, builders.BuilderName(kind), strings.Join(params, ", ")})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(cmd.OutOrStdout()).
		WithData(data).
		Render()
}

func runSignaturesGenerate(cmd *cobra.Command, args []string) error {
	lib := builders.Default()
	provider := signature.Chain{
		signature.NewProbeProvider(lib),
		signature.NewStaticProvider("schema", lib.Signatures()),
	}

	table := make(map[string][]string)
	for _, kind := range lib.Kinds() {
		params, err := provider.Signature(kind)
		if err != nil {
			return err
		}
		table[kind] = params
	}

	f := signature.File{
		SchemaVersion: lib.Version().String(),
		Signatures:    table,
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		text, err := signature.Encode(f)
		if err != nil {
			return err
		}
		return writeOutput(cmd, "", text)
	}
	if err := signature.WriteFile(output, f); err != nil {
		return err
	}
	logger.Infow("Wrote signature table", logger.FieldFile, output, logger.FieldCount, len(table))
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %d signatures to %s", len(table), output)
	return nil
}
