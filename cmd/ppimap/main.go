package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/ppimap/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		cancel()
		os.Exit(1)
	}
}
