package benefit

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the representation of expiry dates at the store boundary.
const DateLayout = "2006-01-02"

// ID is the store-assigned identifier of a benefit record.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses an identifier as shown to users (decimal).
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid benefit ID %q: %w", s, err)
	}
	return ID(v), nil
}

// Benefit represents one shareholder benefit ("yutai") record.
// Corresponds to a row of the 'yutai' table.
type Benefit struct {
	ID         ID
	Name       string
	Amount     sql.NullInt64  // Yen; NULL when the value is not known
	ExpiryDate string         // YYYY-MM-DD as stored, parsed on use
	Memo       sql.NullString // Free text
	CreatedAt  time.Time
}

// Expiry parses ExpiryDate as a calendar date in loc.
func (b *Benefit) Expiry(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, b.ExpiryDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("benefit %d (%s): malformed expiry date %q: %w", b.ID, b.Name, b.ExpiryDate, err)
	}
	return d, nil
}

// Input holds the caller-supplied fields for insert and full-field update.
type Input struct {
	Name       string
	Amount     sql.NullInt64
	ExpiryDate time.Time
	Memo       sql.NullString
}

// FormatDate renders a date the way the store expects it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}
