// Package cli wires configuration, logging and the service client into the
// todo command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/todo/internal/config"
)

// BuildInfo is set via ldflags in main.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("todo %s (commit: %s, built: %s)", b.Version, b.Commit, b.Date)
}

// App carries the persistent flag values shared by all commands.
type App struct {
	ConfigPath string
	BaseURL    string
	Font       string
	LogLevel   string

	Build BuildInfo
}

// NewRootCmd builds the command tree. Running it without a subcommand starts the TUI.
func NewRootCmd(build BuildInfo) *cobra.Command {
	app := &App{Build: build}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Terminal client for a remote todo list",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI against the default service
  todo

  # Point at another service
  todo --base-url https://api.example.com/todo

  # Run a local in-memory service for development
  todo serve --seed
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.toml)")
	flags.StringVar(&app.BaseURL, "base-url", "", "task service URL (overrides TODO_API_BASE_URL)")
	flags.StringVar(&app.Font, "font", "", "initial font: "+fontChoices())
	flags.StringVar(&app.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// loadConfig resolves the config file and environment, then applies flags.
func loadConfig(app *App) (*config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if app.BaseURL != "" {
		cfg.BaseURL = app.BaseURL
	}
	if app.Font != "" {
		cfg.Font = app.Font
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.Build.String())
		},
	}
}
