package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/k0psutin/gdm-sub000/internal/interfaces/cli"
	"github.com/k0psutin/gdm-sub000/internal/interfaces/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, di.NewCLIContainer)
}
