package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create and execute root command
	rootCmd := cli.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)

	if err != nil {
		cancel()
		// Don't print if the command already handled its own error output.
		// SilentError also carries the exit code the dispatch protocol
		// demands (2 for a blocked action).
		var silent *cli.SilentError
		if errors.As(err, &silent) {
			os.Exit(silent.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cancel() // Cleanup on successful exit
}
