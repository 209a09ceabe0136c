package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/commitware/commitgen/internal/commands"
	"github.com/commitware/commitgen/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := commands.Root().Run(ctx, os.Args); err != nil {
		var stateErr *models.RepositoryStateError
		if errors.As(err, &stateErr) {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", stateErr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
