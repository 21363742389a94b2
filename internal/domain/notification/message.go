// internal/domain/notification/message.go
package notification

import (
	"fmt"

	"yutai_notification_bot/internal/domain/benefit"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AmountUnknown is shown in place of the value when a record has no amount.
const AmountUnknown = "金額未定"

var yenPrinter = message.NewPrinter(language.Japanese)

// Reminder is one notification produced for a record on a given run.
type Reminder struct {
	BenefitID  benefit.ID
	Name       string
	Horizon    Horizon
	ExpiryDate string
	Text       string
}

// AmountLabel renders the record's value for messages, e.g. "3,000円相当".
func AmountLabel(b *benefit.Benefit) string {
	if !b.Amount.Valid {
		return AmountUnknown
	}
	return yenPrinter.Sprintf("%d円相当", b.Amount.Int64)
}

// FormatMessage builds the webhook text for a record hitting the given horizon.
func FormatMessage(h Horizon, b *benefit.Benefit) string {
	switch h {
	case HorizonOneMonth:
		return fmt.Sprintf("📢 *【期限1ヶ月前】*\n株主優待 *「%s」* (%s) の期限が1ヶ月後（%s）に迫っています！",
			b.Name, AmountLabel(b), b.ExpiryDate)
	case HorizonTenDays:
		return fmt.Sprintf("🚨 *【期限10日前】*\n株主優待 *「%s」* (%s) の期限がもうすぐ（%s）です！忘れずに使用してください。",
			b.Name, AmountLabel(b), b.ExpiryDate)
	default:
		return fmt.Sprintf("株主優待 *「%s」* (%s) の期限: %s", b.Name, AmountLabel(b), b.ExpiryDate)
	}
}

// NewReminder pairs a record with its formatted message.
func NewReminder(h Horizon, b *benefit.Benefit) Reminder {
	return Reminder{
		BenefitID:  b.ID,
		Name:       b.Name,
		Horizon:    h,
		ExpiryDate: b.ExpiryDate,
		Text:       FormatMessage(h, b),
	}
}
