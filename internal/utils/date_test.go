package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("03/10/2026")
	assert.Error(t, err)

	_, err = ParseDate("2026-3-1")
	assert.Error(t, err)
}

func TestFormatDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	assert.NoError(t, err)
	assert.Equal(t, "2026-12-31", FormatDate(d))
}

func TestAmountToCents(t *testing.T) {
	assert.Equal(t, int64(14850), AmountToCents(148.50))
	assert.Equal(t, int64(1), AmountToCents(0.005))
	assert.Equal(t, int64(-1), AmountToCents(-0.005))
	assert.Equal(t, int64(4500), AmountToCents(45.00))
	assert.Equal(t, 148.50, CentsToAmount(14850))
}
