package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/app"
	"github.com/aliskhannn/xueling-bot/internal/config"
	"github.com/aliskhannn/xueling-bot/internal/delivery/telegram"
	"github.com/aliskhannn/xueling-bot/internal/dispatch"
	"github.com/aliskhannn/xueling-bot/internal/logger"
	"github.com/aliskhannn/xueling-bot/internal/service"
	"github.com/aliskhannn/xueling-bot/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	_, err = bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...))
	if err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != config.EnvProduction
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the snapshot store and backend client.
	store, err := snapshot.Open(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open snapshot store", zap.String("driver", cfg.Snapshot.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			lg.Error("failed to close snapshot store", zap.Error(err))
		}
	}()

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	backend := api.NewClient(cfg.API.BaseURL, httpClient, lg)

	pool := dispatch.NewPool(cfg.Workers.Count, cfg.Workers.Queue, lg)
	pool.Start(ctx)
	defer pool.Close()

	registry := app.NewRegistry(app.Deps{
		API:        backend,
		Store:      store,
		Dispatcher: pool,
		Validator:  service.NewValidator(),
		Config:     cfg,
		Logger:     lg,
	})

	refresher := app.NewQuoteRefresher(registry, cfg.Refresh.QuoteSchedule, lg)
	go func() {
		if err := refresher.Start(ctx); err != nil {
			lg.Error("quote refresher stopped", zap.Error(err))
		}
	}()

	handler := telegram.NewHandler(bot, registry, httpClient, lg)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler failed", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
