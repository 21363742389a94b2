// Command notifier runs a single expiry check and exits. It is meant to be driven by
// an external scheduler such as cron or CI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"
	"yutai_notification_bot/internal/domain/notification"
	"yutai_notification_bot/internal/domain/webhook"
	"yutai_notification_bot/internal/infra/config"
	"yutai_notification_bot/internal/infra/logger"
	"yutai_notification_bot/internal/infra/slack"
	"yutai_notification_bot/internal/infra/store"

	"github.com/sirupsen/logrus"
)

const completionMarker = "チェック完了！"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}

	// Human-readable markers go to stdout; structured logs go to stderr.
	log := logger.New(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.NotifyJobTimeout)
	defer cancel()

	return checkRun{
		location: cfg.Location(),
		log:      log,
		out:      os.Stdout,
		now:      time.Now,
		openStore: func(ctx context.Context) (benefit.Repository, func() error, error) {
			return store.Open(ctx, cfg, logger.Component(log, "store"))
		},
		sender: slack.NewWebhookClient(slack.Config{
			URL:              cfg.SlackWebhookURL,
			Timeout:          cfg.WebhookTimeout,
			RateLimitRetries: cfg.WebhookRateLimitRetries,
			RateLimitDelay:   cfg.WebhookRateLimitDelay,
		}, logger.Component(log, "slack")),
	}.execute(ctx)
}

// checkRun holds the collaborators of one notifier invocation.
type checkRun struct {
	location  *time.Location
	log       *logrus.Logger
	out       io.Writer
	now       func() time.Time
	openStore func(ctx context.Context) (benefit.Repository, func() error, error)
	sender    webhook.Sender
}

// execute prints a start marker, runs the expiry check and prints the completion
// marker only when the run had no fault.
func (r checkRun) execute(ctx context.Context) error {
	today := notification.Today(r.now().In(r.location))
	fmt.Fprintf(r.out, "本日の日付: %s - 株主優待の期限チェックを開始します...\n", benefit.FormatDate(today))

	benefitRepo, closeStore, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	notificationService := app.NewNotificationServiceImpl(benefitRepo, r.sender, r.location, logger.Component(r.log, "notifier")).
		WithClock(r.now)
	report, err := notificationService.CheckAndNotify(ctx)
	if report != nil {
		fmt.Fprintln(r.out, report.Summary())
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, completionMarker)
	return nil
}
