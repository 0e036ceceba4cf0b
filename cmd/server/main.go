package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akinbolaji10/maxeng-webhook-server/internal/config"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/notifier"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/storage"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/telegram"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/webhook"
)

func main() {
	// Setup logger
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	// Load config
	cfg := config.Load()

	// Initialize storage
	store, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Error("init storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("storage initialized", "database_url", cfg.DatabaseURL)

	// Initialize notifications when a bot token is configured
	var notify webhook.NotifyFunc
	if cfg.BotToken != "" {
		bot, err := telegram.New(cfg.BotToken, log)
		if err != nil {
			log.Error("init telegram bot", "error", err)
			os.Exit(1)
		}
		notify = notifier.New(cfg, bot, log).Notify
		log.Info("telegram notifications enabled")
	} else {
		log.Warn("BOT_TOKEN not set, notifications disabled")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	// Start webhook server
	server := webhook.NewServer(store, notify, cfg, log)
	if err := server.Start(ctx, cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Error("webhook server", "error", err)
		os.Exit(1)
	}
}
