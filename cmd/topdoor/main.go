package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, cleanup := newRootCmd(defaultCore)
	defer cleanup()

	if err := cmd.ExecuteContext(ctx); err != nil {
		color.Fprintf(os.Stderr, "<red>error:</> %s\n", err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	return 0
}
