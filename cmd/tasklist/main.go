package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-list/internal/cli"
)

func main() {
	// Interrupts cancel the context; serve treats that as a graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
