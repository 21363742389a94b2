// internal/app/notification_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yutai_notification_bot/internal/domain/benefit"
	"yutai_notification_bot/internal/domain/notification"
	"yutai_notification_bot/internal/domain/webhook"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrMalformedRecords is wrapped by CheckAndNotify when one or more stored records
// had an unparseable expiry date. The remaining records are still evaluated.
var ErrMalformedRecords = errors.New("malformed benefit records")

// NotificationService defines the expiry reminder run.
type NotificationService interface {
	// CheckAndNotify evaluates every stored benefit against today's reminder targets
	// and posts one webhook message per matching record. The report is returned even
	// when an error is.
	CheckAndNotify(ctx context.Context) (*Report, error)
}

// MalformedRecord is a record skipped because its expiry date could not be parsed.
type MalformedRecord struct {
	BenefitID  benefit.ID
	Name       string
	ExpiryDate string
	Err        error
}

// FailedSend is a reminder the webhook did not accept.
type FailedSend struct {
	Reminder notification.Reminder
	Err      error
}

// Report summarises one evaluation run.
type Report struct {
	RunID       string
	Today       time.Time
	Evaluated   int
	Sent        []notification.Reminder
	FailedSends []FailedSend
	Malformed   []MalformedRecord
}

// Summary renders the report for the operator.
func (r *Report) Summary() string {
	return fmt.Sprintf("チェック完了 (%s): 登録 %d件 / 通知 %d件 / 送信失敗 %d件 / 期限不正 %d件",
		benefit.FormatDate(r.Today), r.Evaluated, len(r.Sent), len(r.FailedSends), len(r.Malformed))
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	benefitRepo benefit.Repository
	sender      webhook.Sender
	location    *time.Location
	now         func() time.Time
	logger      *logrus.Entry
}

func NewNotificationServiceImpl(
	br benefit.Repository,
	sender webhook.Sender,
	location *time.Location, // Decides which calendar day "today" is
	logger *logrus.Entry,
) *NotificationServiceImpl {
	if location == nil {
		location = time.Local
	}
	return &NotificationServiceImpl{
		benefitRepo: br,
		sender:      sender,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock replaces the source of the current time.
func (s *NotificationServiceImpl) WithClock(now func() time.Time) *NotificationServiceImpl {
	s.now = now
	return s
}

// CheckAndNotify runs one evaluation.
func (s *NotificationServiceImpl) CheckAndNotify(ctx context.Context) (*Report, error) {
	targets := notification.TargetsFor(s.now().In(s.location))
	report := &Report{
		RunID: uuid.NewString(),
		Today: targets.Today,
	}
	runLogger := s.logger.WithField("run_id", report.RunID)
	runLogger.WithFields(logrus.Fields{
		"today":            benefit.FormatDate(targets.Today),
		"target_one_month": benefit.FormatDate(targets.OneMonth),
		"target_ten_days":  benefit.FormatDate(targets.TenDays),
	}).Info("Starting expiry check")

	benefits, err := s.benefitRepo.List(ctx)
	if err != nil {
		runLogger.WithError(err).Error("Failed to list benefits")
		return report, fmt.Errorf("failed to list benefits: %w", err)
	}
	if len(benefits) == 0 {
		runLogger.Info("No benefits registered. Nothing to check.")
		return report, nil
	}

	for _, b := range benefits {
		report.Evaluated++
		recordLogger := runLogger.WithFields(logrus.Fields{
			"benefit_id":  b.ID,
			"name":        b.Name,
			"expiry_date": b.ExpiryDate,
		})

		expiry, err := b.Expiry(s.location)
		if err != nil {
			recordLogger.WithError(err).Warn("Skipping benefit with malformed expiry date")
			report.Malformed = append(report.Malformed, MalformedRecord{
				BenefitID:  b.ID,
				Name:       b.Name,
				ExpiryDate: b.ExpiryDate,
				Err:        err,
			})
			continue
		}

		horizon, ok := targets.Match(expiry)
		if !ok {
			continue
		}

		reminder := notification.NewReminder(horizon, b)
		recordLogger = recordLogger.WithField("horizon", horizon)
		if err := s.sender.Send(ctx, reminder.Text); err != nil {
			recordLogger.WithError(err).Error("Failed to send expiry reminder")
			report.FailedSends = append(report.FailedSends, FailedSend{Reminder: reminder, Err: err})
			continue
		}
		recordLogger.Info("Expiry reminder sent")
		report.Sent = append(report.Sent, reminder)
	}

	runLogger.WithFields(logrus.Fields{
		"evaluated":    report.Evaluated,
		"sent":         len(report.Sent),
		"failed_sends": len(report.FailedSends),
		"malformed":    len(report.Malformed),
	}).Info("Expiry check finished")

	if len(report.Malformed) > 0 {
		errs := make([]error, 0, len(report.Malformed))
		for _, m := range report.Malformed {
			errs = append(errs, m.Err)
		}
		return report, fmt.Errorf("%w: %d of %d: %w", ErrMalformedRecords, len(report.Malformed), report.Evaluated, errors.Join(errs...))
	}
	return report, nil
}
