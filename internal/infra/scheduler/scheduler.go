package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yutai_notification_bot/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ExpiryScheduler struct {
	cronEngine     *cron.Cron
	notifService   app.NotificationService // Using the interface
	logger         *logrus.Entry
	cronSpecExpiry string
	jobTimeout     time.Duration
}

func NewExpiryScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	location *time.Location, // Same zone the notifier uses for "today"
	cronSpecExpiry string, // e.g., "0 9 * * *" (9 AM daily)
	jobTimeout time.Duration,
) *ExpiryScheduler {
	if location == nil {
		location = time.Local
	}
	return &ExpiryScheduler{
		cronEngine:     cron.New(cron.WithLocation(location)),
		notifService:   notifService,
		logger:         logger,
		cronSpecExpiry: cronSpecExpiry,
		jobTimeout:     jobTimeout,
	}
}

// Start registers the daily expiry check and starts the cron engine.
func (s *ExpiryScheduler) Start() error {
	s.logger.Info("Starting expiry scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecExpiry, func() {
		s.logger.Info("Cron job triggered for expiry check.")
		s.runExpiryCheck()
	})
	if err != nil {
		return fmt.Errorf("could not add expiry check cron job %q: %w", s.cronSpecExpiry, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecExpiry).Info("Expiry scheduler started.")
	return nil
}

func (s *ExpiryScheduler) runExpiryCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	report, err := s.notifService.CheckAndNotify(ctx)
	switch {
	case err != nil && errors.Is(err, app.ErrMalformedRecords):
		s.logger.WithError(err).Warn("Expiry check finished with malformed records")
	case err != nil:
		s.logger.WithError(err).Error("Error during expiry check")
		return
	}
	if report != nil {
		s.logger.Info(report.Summary())
	}
}

func (s *ExpiryScheduler) Stop() {
	s.logger.Info("Stopping expiry scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Expiry scheduler gracefully stopped.")
}
