package commands

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/config"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/jsparse"
	"github.com/teranos/astbuild/layout"
	"github.com/teranos/astbuild/logger"
	"github.com/teranos/astbuild/signature"
	"github.com/teranos/astbuild/synth"
)

// options is the effective configuration of one generation run: config
// values with command line flags applied on top
type options struct {
	cfg    config.Config
	output string
	pairs  []synth.Pair
}

// addGenFlags registers the flags shared by gen, verify and watch
func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Input format: js or json (default from config)")
	cmd.Flags().String("provider", "", "Signature provider: static, probe or chain")
	cmd.Flags().String("signature-file", "", "TOML signature table used by the static provider")
	cmd.Flags().StringP("namespace", "n", "", "Builder namespace the generated code calls")
	cmd.Flags().StringArrayP("replace", "r", nil, "Replace an identifier: name=expression (repeatable)")
}

// loadConfig honours the global --config flag
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		return config.LoadFile(f.Value.String())
	}
	return config.Load()
}

// resolveOptions merges flags over cfg. pairArgs are positional
// name=fragment arguments; they win over --replace, which wins over
// replace.pairs from the config.
func resolveOptions(cmd *cobra.Command, cfg *config.Config, pairArgs []string) (*options, error) {
	opts := &options{cfg: *cfg}
	flags := cmd.Flags()

	if flags.Changed("format") {
		opts.cfg.Input.Format, _ = flags.GetString("format")
	}
	if flags.Changed("provider") {
		opts.cfg.Builder.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("signature-file") {
		opts.cfg.Builder.SignatureFile, _ = flags.GetString("signature-file")
	}
	if flags.Changed("namespace") {
		opts.cfg.Builder.Namespace, _ = flags.GetString("namespace")
	}
	if f := flags.Lookup("output"); f != nil {
		opts.output = f.Value.String()
	}
	if err := opts.cfg.Validate(); err != nil {
		return nil, err
	}

	pairs, err := synth.ParsePairs(cfg.Replace.Pairs)
	if err != nil {
		return nil, errors.Wrap(err, "replace.pairs")
	}
	replace, _ := flags.GetStringArray("replace")
	for _, s := range append(replace, pairArgs...) {
		p, err := synth.ParsePair(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	opts.pairs = pairs
	return opts, nil
}

// splitArgs separates the input path from trailing name=fragment pairs.
// No path, or "-", reads standard input.
func splitArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "-", nil
	}
	return args[0], args[1:]
}

// readInput reads path, or the command's stdin for "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" || path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read standard input")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// parseInput turns source text or ESTree JSON into a File tree
func parseInput(data []byte, format string) (*estree.Node, error) {
	switch format {
	case config.FormatJSON:
		return estree.DecodeProgram(data)
	case config.FormatJS, "":
		return jsparse.ParseProgram(string(data))
	default:
		return nil, errors.Newf("unknown input format %q", format)
	}
}

// newProvider builds the signature provider named in cfg
func newProvider(cfg config.BuilderConfig) (signature.Provider, error) {
	var static signature.Provider = signature.NewStaticProvider("schema", builders.Default().Signatures())
	if cfg.SignatureFile != "" {
		p, err := signature.LoadFile(cfg.SignatureFile)
		if err != nil {
			return nil, err
		}
		static = p
	}

	switch cfg.Provider {
	case config.ProviderStatic, "":
		return static, nil
	case config.ProviderProbe:
		return signature.NewProbeProvider(builders.Default()), nil
	case config.ProviderChain:
		return signature.Chain{static, signature.NewProbeProvider(builders.Default())}, nil
	default:
		return nil, errors.Newf("unknown signature provider %q", cfg.Provider)
	}
}

// generator runs the parse, synthesize and render pipeline for one set
// of options. The resolver is shared across runs so watch mode keeps its
// signature cache.
type generator struct {
	opts     *options
	resolver *signature.Resolver
	repl     *synth.Replacements
}

func newGenerator(opts *options) (*generator, error) {
	provider, err := newProvider(opts.cfg.Builder)
	if err != nil {
		return nil, err
	}
	repl := synth.NoReplacements
	if len(opts.pairs) > 0 {
		repl, err = synth.NewReplacements(jsparse.Parser{}, opts.pairs)
		if err != nil {
			return nil, err
		}
	}
	return &generator{
		opts:     opts,
		resolver: signature.NewResolver(provider),
		repl:     repl,
	}, nil
}

// generate returns the rendered builder code for data, newline terminated
func (g *generator) generate(data []byte) (*estree.Node, string, error) {
	start := time.Now()
	tree, err := parseInput(data, g.opts.cfg.Input.Format)
	if err != nil {
		return nil, "", err
	}
	expr, err := synth.New(g.resolver, g.opts.cfg.Builder.Namespace).Synthesize(tree, g.repl)
	if err != nil {
		return nil, "", err
	}
	code, err := layout.Render(expr, "")
	if err != nil {
		return nil, "", err
	}
	logger.Debugw("Generated builder code",
		logger.FieldBytes, len(code),
		logger.FieldNamespace, g.opts.cfg.Builder.Namespace,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return tree, code + "\n", nil
}

// writeOutput writes text to path, or to the command's stdout when path
// is empty. Nothing is written on error upstream.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Wrote builder code", logger.FieldFile, path, logger.FieldBytes, len(text))
	return nil
}
