// Command bot runs the zakat desk in long polling mode, for local use.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dkmdesk/zakat_bot/internal/app"
	"github.com/dkmdesk/zakat_bot/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	b, closeStore, err := app.Bot(cfg, logger)
	if err != nil {
		logger.Error("cannot start bot", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("polling for updates")
	if err := b.Start(ctx); err != nil {
		logger.Error("polling stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}
