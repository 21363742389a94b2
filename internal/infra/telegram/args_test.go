package telegram

import (
	"database/sql"
	"testing"
	"time"

	"yutai_notification_bot/internal/domain/benefit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    benefit.Input
		wantErr error
	}{
		{
			name:    "all fields",
			payload: "QUOカード | 3,000円 | 2024-06-30 | 家族分",
			want: benefit.Input{
				Name:       "QUOカード",
				Amount:     sql.NullInt64{Int64: 3000, Valid: true},
				ExpiryDate: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
				Memo:       sql.NullString{String: "家族分", Valid: true},
			},
		},
		{
			name:    "amount and memo absent",
			payload: "食事券 | - | 2024-04-15",
			want: benefit.Input{
				Name:       "食事券",
				ExpiryDate: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "empty amount and dash memo",
			payload: "カタログ |  | 2024-12-31 | -",
			want: benefit.Input{
				Name:       "カタログ",
				ExpiryDate: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{name: "too few fields", payload: "食事券 | 1000", wantErr: errUsage},
		{name: "too many fields", payload: "a | 1 | 2024-01-01 | m | extra", wantErr: errUsage},
		{name: "empty payload", payload: "", wantErr: errUsage},
		{name: "bad amount", payload: "食事券 | abc | 2024-04-15", wantErr: errInvalidAmount},
		{name: "bad date", payload: "食事券 | 1000 | 2024/04/15", wantErr: errInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAddPayload(tt.payload, time.UTC)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddPayload_EmptyDateLeftForValidation(t *testing.T) {
	got, err := parseAddPayload("食事券 | 1000 | ", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.ExpiryDate.IsZero())
}

func TestParseAddPayload_NegativeAmountPassesThrough(t *testing.T) {
	got, err := parseAddPayload("食事券 | -500 | 2024-04-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, sql.NullInt64{Int64: -500, Valid: true}, got.Amount)
}

func TestParseEditPayload(t *testing.T) {
	id, in, err := parseEditPayload("7 | 食事券 | 2000 | 2024-04-15 | 更新", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, benefit.ID(7), id)
	assert.Equal(t, "食事券", in.Name)
	assert.Equal(t, int64(2000), in.Amount.Int64)
	assert.Equal(t, "更新", in.Memo.String)

	_, _, err = parseEditPayload("x | 食事券 | 2000 | 2024-04-15", time.UTC)
	require.Error(t, err)

	_, _, err = parseEditPayload("7 | 食事券 | 2000", time.UTC)
	require.ErrorIs(t, err, errUsage)
}
