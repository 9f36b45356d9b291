package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/internal/watch"
	"github.com/teranos/astbuild/logger"
)

func buildWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file> [name=expression...]",
		Short: "Regenerate builder code whenever the input file changes",
		Long: `Generate builder code for a file, then keep regenerating it on every
change until interrupted. A failed regeneration is reported and leaves
the previous output in place.`,
		Example: `  astbuild watch template.js -o template.gen.js
  astbuild watch template.js x='y + 1' --debounce 500ms`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWatch,
	}
	addGenFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write generated code to a file instead of stdout")
	cmd.Flags().Duration("debounce", 0, "Quiet period before regenerating (default from watch.debounce_ms)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, pairArgs := splitArgs(args)
	if path == "-" {
		return errors.New("watch needs a file, not standard input")
	}
	opts, err := resolveOptions(cmd, cfg, pairArgs)
	if err != nil {
		return err
	}
	gen, err := newGenerator(opts)
	if err != nil {
		return err
	}

	debounce := opts.cfg.Debounce()
	if cmd.Flags().Changed("debounce") {
		debounce, _ = cmd.Flags().GetDuration("debounce")
	}

	regenerate := func() {
		data, err := readInput(cmd, path)
		if err == nil {
			var code string
			if _, code, err = gen.generate(data); err == nil {
				err = writeOutput(cmd, opts.output, code)
			}
		}
		if err != nil {
			ReportError(cmd.ErrOrStderr(), err)
			logger.Debugw("Regeneration failed", logger.FieldFile, path, logger.FieldError, err)
		}
	}

	regenerate()

	w, err := watch.New([]string{path}, debounce, func([]string) { regenerate() })
	if err != nil {
		return err
	}
	logger.Infow("Watching for changes", logger.FieldFile, path, "debounce", debounce.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
