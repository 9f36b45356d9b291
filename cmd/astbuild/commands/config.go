package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/astbuild/config"
	"github.com/teranos/astbuild/display"
	"github.com/teranos/astbuild/errors"
)

func buildConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage astbuild configuration",
		Long: `Display and manage astbuild configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ASTBUILD_* prefix, e.g. ASTBUILD_BUILDER_NAMESPACE)
3. File given with --config
4. Project config (astbuild.toml, searched up from the working directory)
5. User config (~/.astbuild/config.toml)
6. System config (/etc/astbuild/config.toml)
7. Default values

Examples:
  astbuild config show                  # Show current configuration
  astbuild config show --format json    # Show configuration as JSON
  astbuild config validate              # Validate current configuration
  astbuild config where                 # List the files that were searched
  astbuild config init                  # Write ./astbuild.toml with defaults`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	show.Flags().String("format", "toml", "Output format: toml, json, yaml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}

	where := &cobra.Command{
		Use:   "where",
		Short: "Show which configuration files are searched",
		Args:  cobra.NoArgs,
		RunE:  runConfigWhere,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the current settings",
		Long: `Write the effective configuration to a TOML file (default ./astbuild.toml).
An existing file is kept as a numbered backup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigInit,
	}

	cmd.AddCommand(show)
	cmd.AddCommand(validate)
	cmd.AddCommand(where)
	cmd.AddCommand(initCmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		if err := display.OutputJSON(out, cfg); err != nil {
			return err
		}

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# astbuild configuration\n%s", string(data))

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# astbuild configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration files (later overrides earlier):")
	for _, path := range config.ConfigPaths() {
		state := pterm.Gray("missing")
		if _, err := os.Stat(path); err == nil {
			state = pterm.Green("found")
		}
		fmt.Fprintf(out, "  [%s] %s\n", state, path)
	}
	fmt.Fprintln(out, "Environment: ASTBUILD_* variables override every file")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := config.ProjectConfigName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
	return nil
}
