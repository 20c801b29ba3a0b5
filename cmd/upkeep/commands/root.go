// Package commands implements the CLI commands for upkeep.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/upkeep/internal/app"
	"go.trai.ch/upkeep/internal/build"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for upkeep.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "upkeep",
		Short:         "Upgrade pinned Python dependencies one validated step at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to upkeep.yaml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("log-format")
		switch format {
		case "text":
			c.app.SetLogFormat(false)
		case "json":
			c.app.SetLogFormat(true)
		default:
			return zerr.With(zerr.New("unknown log format"), "format", format)
		}
		return nil
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	return app.RunOptions{ConfigPath: configPath}
}
