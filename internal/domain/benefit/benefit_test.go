package benefit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenefit_Expiry(t *testing.T) {
	b := &Benefit{ID: 1, Name: "QUOカード", ExpiryDate: "2024-04-01"}
	d, err := b.Expiry(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestBenefit_Expiry_Malformed(t *testing.T) {
	for _, raw := range []string{"", "2024/04/01", "2024-02-30", "next month"} {
		b := &Benefit{ID: 2, Name: "broken", ExpiryDate: raw}
		_, err := b.Expiry(time.UTC)
		assert.Error(t, err, "expected error for %q", raw)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = ParseID("abc")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 11, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", FormatDate(d))
}
