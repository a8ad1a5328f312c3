// Package cli provides the command-line interface of the iagon tool server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	agentiagon "github.com/felixgeelhaar/agent-iagon"
)

// Version information set at build time.
var (
	Version   = agentiagon.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ErrToolFailed is returned when a tool ran but reported a failure outcome.
var ErrToolFailed = errors.New("tool reported failure")

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "iagon-agent",
		Short: "Iagon storage tools for AI agents",
		Long: `iagon-agent exposes Iagon decentralized storage to AI agents as tools:
uploading files (optionally into a named directory, optionally password
protected) and resolving directory names to identifiers.

Run "iagon-agent serve" to expose the tools over the Model Context Protocol,
or call them directly with "upload" and "directory-id".

Credentials come from the config file or the IAGON_API_KEY and
IAGON_PASSWORD environment variables (a .env file is read when present).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "Path to configuration file (YAML or JSON)")
	flags.StringVar(&app.opts.envFile, "env-file", ".env", "Dotenv file with credentials (skipped when missing)")
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&app.opts.logFormat, "log-format", "", "Log format (json or console)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newServeCmd(),
		app.newUploadCmd(),
		app.newDirectoryIDCmd(),
		app.newToolsCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "iagon-agent version %s\n", Version)
			_, _ = fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
