package main

import (
	"context"
	"os"
	"os/signal"

	"todocal/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), cli.ShutdownSignals...)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
