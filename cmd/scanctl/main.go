// Command scanctl is the command-line client for the inventory scanning
// dashboard backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scan-dashboard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New().Execute(ctx)
	stop()
	os.Exit(code)
}
