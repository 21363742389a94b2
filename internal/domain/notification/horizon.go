// internal/domain/notification/horizon.go
package notification

import "time"

// Horizon identifies a fixed lookahead interval that triggers a reminder.
type Horizon string

const (
	HorizonOneMonth Horizon = "ONE_MONTH" // today + 1 calendar month
	HorizonTenDays  Horizon = "TEN_DAYS"  // today + 10 days
)

const tenDays = 10

// Targets holds the two expiry dates that trigger a reminder for a given day.
type Targets struct {
	Today    time.Time
	OneMonth time.Time
	TenDays  time.Time
}

// Today truncates now to the calendar date in its own location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// AddMonths adds n calendar months to d. When the day-of-month does not exist in the
// target month the result is clamped to that month's last day (Jan 31 + 1 = Feb 28/29).
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// TargetsFor computes the reminder targets for the calendar day containing now.
func TargetsFor(now time.Time) Targets {
	today := Today(now)
	return Targets{
		Today:    today,
		OneMonth: AddMonths(today, 1),
		TenDays:  today.AddDate(0, 0, tenDays),
	}
}

// Match reports which horizon, if any, an expiry date hits. The one-month horizon is
// checked first and the ten-day horizon only when it does not match.
func (t Targets) Match(expiry time.Time) (Horizon, bool) {
	e := Today(expiry)
	switch {
	case sameDate(e, t.OneMonth):
		return HorizonOneMonth, true
	case sameDate(e, t.TenDays):
		return HorizonTenDays, true
	default:
		return "", false
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
