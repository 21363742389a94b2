package telegram

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yutai_notification_bot/internal/domain/benefit"
)

var (
	errUsage         = errors.New("wrong number of fields")
	errInvalidAmount = errors.New("invalid amount")
	errInvalidDate   = errors.New("invalid expiry date")
)

// absent marks an optional field the operator wants left empty.
const absent = "-"

// splitFields splits a "a | b | c" payload and trims every field.
func splitFields(payload string) []string {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	fields := strings.Split(payload, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseAddPayload parses "名称 | 金額 | YYYY-MM-DD | メモ". Amount and memo may be
// empty or "-".
func parseAddPayload(payload string, loc *time.Location) (benefit.Input, error) {
	fields := splitFields(payload)
	if len(fields) < 3 || len(fields) > 4 {
		return benefit.Input{}, errUsage
	}
	return parseBenefitFields(fields, loc)
}

// parseEditPayload parses "<id> | 名称 | 金額 | YYYY-MM-DD | メモ".
func parseEditPayload(payload string, loc *time.Location) (benefit.ID, benefit.Input, error) {
	fields := splitFields(payload)
	if len(fields) < 4 || len(fields) > 5 {
		return 0, benefit.Input{}, errUsage
	}
	id, err := benefit.ParseID(fields[0])
	if err != nil {
		return 0, benefit.Input{}, err
	}
	in, err := parseBenefitFields(fields[1:], loc)
	if err != nil {
		return 0, benefit.Input{}, err
	}
	return id, in, nil
}

func parseBenefitFields(fields []string, loc *time.Location) (benefit.Input, error) {
	in := benefit.Input{Name: fields[0]}

	amount, err := parseAmount(fields[1])
	if err != nil {
		return benefit.Input{}, err
	}
	in.Amount = amount

	// An empty date is left zero so the service reports it as missing.
	if fields[2] != "" {
		d, err := benefit.ParseDate(fields[2], loc)
		if err != nil {
			return benefit.Input{}, fmt.Errorf("%w %q: %w", errInvalidDate, fields[2], err)
		}
		in.ExpiryDate = d
	}

	if len(fields) == 4 && fields[3] != "" && fields[3] != absent {
		in.Memo = sql.NullString{String: fields[3], Valid: true}
	}
	return in, nil
}

// parseAmount accepts "3000", "3,000" and "3000円".
func parseAmount(s string) (sql.NullInt64, error) {
	if s == "" || s == absent {
		return sql.NullInt64{}, nil
	}
	cleaned := strings.TrimSuffix(strings.ReplaceAll(s, ",", ""), "円")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("%w %q", errInvalidAmount, s)
	}
	return sql.NullInt64{Int64: v, Valid: true}, nil
}
