// Command webhook serves the Telegram webhook over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dkmdesk/zakat_bot/internal/app"
	"github.com/dkmdesk/zakat_bot/internal/bot"
	"github.com/dkmdesk/zakat_bot/internal/config"
)

func main() {
	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	b, closeStore, err := app.Bot(cfg, logger)
	if err != nil {
		logger.Error("cannot start bot", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET is empty, webhook calls are not authenticated")
	}
	handler := bot.NewWebhookHandler(b, cfg.WebhookSecret, logger.With("component", "webhook"))

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server gracefully stopped")
}
