package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/userkeeper/internal/client/cli"
	"github.com/iudanet/userkeeper/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.New(iocli.NewStdio())
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	rootCmd := app.NewRootCmd(versionString())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func versionString() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)
}
