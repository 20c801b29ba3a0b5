// Package main is the entry point for the upkeep dependency upgrader.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/upkeep/cmd/upkeep/commands"
	"go.trai.ch/upkeep/internal/app"
	"go.trai.ch/upkeep/internal/core/domain"
	_ "go.trai.ch/upkeep/internal/wiring"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitNoBaseline    = 3
	exitLedgerMissing = 4
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return exitFailure
	}

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(os.Args[1:])

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoBaseline):
		return exitNoBaseline
	case errors.Is(err, domain.ErrLedgerMissing):
		return exitLedgerMissing
	default:
		return exitFailure
	}
}
