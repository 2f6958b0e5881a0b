package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/usecase"
)

// maskedSecret replaces a configured secret key in printed configuration.
const maskedSecret = "********"

// newConfigCommand creates the config command.
// Without a subcommand it prints the effective configuration.
func newConfigCommand(c *app.Container) *cobra.Command {
	var in usecase.ShowConfigInput

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage tasklist configuration files and settings.

Without a subcommand, prints the effective configuration (same as 'config show').`,
		Annotations: map[string]string{annotationTolerateConfigError: ""},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c, in)
		},
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	var in usecase.ShowConfigInput

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
Use --ignore-global, --ignore-project or --ignore-env to exclude specific
sources for debugging. Command-line flags are not applied here.`,
		Annotations: map[string]string{annotationTolerateConfigError: ""},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c, in)
		},
	}

	cmd.Flags().BoolVar(&in.IgnoreGlobal, "ignore-global", false, "Ignore global configuration")
	cmd.Flags().BoolVar(&in.IgnoreProject, "ignore-project", false, "Ignore project configuration (tasklist.toml)")
	cmd.Flags().BoolVar(&in.IgnoreEnv, "ignore-env", false, "Ignore environment variables and .env")

	return cmd
}

func runConfigShow(cmd *cobra.Command, c *app.Container, in usecase.ShowConfigInput) error {
	uc := c.ShowConfigUseCase()
	out, err := uc.Execute(cmd.Context(), in)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	// Display loaded files section
	_, _ = fmt.Fprintln(w, "[Loaded from]")
	if !in.IgnoreGlobal && out.GlobalConfig.Path != "" {
		printConfigSource(w, out.GlobalConfig)
	}
	if !in.IgnoreProject {
		printConfigSource(w, out.ProjectConfig)
	}
	_, _ = fmt.Fprintln(w)

	// Display effective config in TOML format
	_, _ = fmt.Fprintln(w, "[Effective Config]")
	return formatEffectiveConfig(w, out.EffectiveConfig)
}

func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
}

// effectiveConfig is the printable form of domain.Config.
type effectiveConfig struct {
	Storage struct {
		Path   string `toml:"path"`
		Strict bool   `toml:"strict"`
	} `toml:"storage"`
	Server struct {
		Addr            string `toml:"addr"`
		SecretKey       string `toml:"secret_key"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
		SeedExamples    bool   `toml:"seed_examples"`
	} `toml:"server"`
	Log struct {
		Level    string `toml:"level"`
		File     string `toml:"file"`
		Requests bool   `toml:"requests"`
	} `toml:"log"`
}

// formatEffectiveConfig formats the effective config in TOML format.
// The secret key is masked and durations are printed as strings.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	var out effectiveConfig
	out.Storage.Path = cfg.Storage.Path
	out.Storage.Strict = cfg.Storage.Strict
	out.Server.Addr = cfg.Server.Addr
	if cfg.Server.SecretKey != "" {
		out.Server.SecretKey = maskedSecret
	}
	out.Server.ShutdownTimeout = cfg.Server.ShutdownTimeout.String()
	out.Server.SeedExamples = cfg.Server.SeedExamples
	out.Log.Level = cfg.Log.Level
	out.Log.File = cfg.Log.File
	out.Log.Requests = cfg.Log.Requests

	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a commented configuration file template to stdout.

This command does not read existing configuration files and works even
if they are broken.`,
		Annotations: map[string]string{annotationTolerateConfigError: ""},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.ConfigTemplate())
			return nil
		},
	}

	return cmd
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file from the template.

By default, creates the project configuration file (./tasklist.toml or --config).
With --global, creates the global configuration file at ~/.config/tasklist/config.toml.

Error conditions:
- Target file already exists: error`,
		Annotations: map[string]string{annotationTolerateConfigError: ""},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{Global: global})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
