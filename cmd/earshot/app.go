package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// App is the earshot command line.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "earshot",
		Short: "Headless NPC perception and reaction engine",
		Long: `earshot runs agents that notice moving targets, accumulate a threat level
and play scripted reactions for each threat tier.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.root.AddCommand(
		app.newSimulateCmd(),
		app.newValidateCmd(),
	)
	return app
}

// WithOutput redirects command output. Logs follow stderr.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}
