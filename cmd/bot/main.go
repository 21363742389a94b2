package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/infra/config"
	"yutai_notification_bot/internal/infra/logger"
	"yutai_notification_bot/internal/infra/scheduler"
	"yutai_notification_bot/internal/infra/slack"
	"yutai_notification_bot/internal/infra/store"
	"yutai_notification_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Yutai Notification Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg, os.Stdout)
	mainLogger := logger.Component(log, "main")

	if err := cfg.ValidateBot(); err != nil {
		mainLogger.WithError(err).Fatal("Invalid bot configuration")
	}
	mainLogger.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"store_backend": cfg.StoreBackend,
		"timezone":      cfg.Location().String(),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Repository
	benefitRepo, closeStore, err := store.Open(ctx, cfg, logger.Component(log, "store"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not open benefit store")
	}
	defer closeStore()

	// Initialize Webhook Sender
	sender := slack.NewWebhookClient(slack.Config{
		URL:              cfg.SlackWebhookURL,
		Timeout:          cfg.WebhookTimeout,
		RateLimitRetries: cfg.WebhookRateLimitRetries,
		RateLimitDelay:   cfg.WebhookRateLimitDelay,
	}, logger.Component(log, "slack"))

	// Initialize Services
	notificationService := app.NewNotificationServiceImpl(benefitRepo, sender, cfg.Location(), logger.Component(log, "notifier"))
	benefitService := app.NewBenefitService(benefitRepo, notificationService, cfg.Location())
	mainLogger.Info("Services initialized.")

	// Initialize ExpiryScheduler
	expiryScheduler := scheduler.NewExpiryScheduler(
		notificationService,
		logger.Component(log, "scheduler"),
		cfg.Location(),
		cfg.CronSpecExpiryCheck,
		cfg.NotifyJobTimeout,
	)
	if err := expiryScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start expiry scheduler")
	}

	// Initialize Telegram Bot
	telegramLogger := logger.Component(log, "telegram")
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := telegramLogger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telegram handler failed")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		expiryScheduler.Stop()
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	// Register Handlers
	telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, telegramLogger)
	adminHandlers := telegram.NewAdminHandlers(ctx, benefitService, telegram.NewSelectionStore(), cfg.AdminTelegramID, cfg.Location(), telegramLogger)
	telegram.RegisterAdminHandlers(bot, adminHandlers)
	mainLogger.Info("Telegram command handlers registered.")

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	expiryScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
