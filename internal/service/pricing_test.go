package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "fleetrental/internal/errors"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPriceRental(t *testing.T) {
	t.Run("ThreeDayRental", func(t *testing.T) {
		q, err := PriceRental(4500, date("2026-03-10"), date("2026-03-12"))
		assert.NoError(t, err)
		assert.Equal(t, 3, q.Days)
		assert.Equal(t, int64(13500), q.SubtotalCents)
		assert.Equal(t, int64(1350), q.TaxCents)
		assert.Equal(t, int64(14850), q.TotalCents)
	})

	t.Run("SameDayCountsAsOneDay", func(t *testing.T) {
		q, err := PriceRental(4500, date("2026-03-10"), date("2026-03-10"))
		assert.NoError(t, err)
		assert.Equal(t, 1, q.Days)
		assert.Equal(t, int64(4500), q.SubtotalCents)
		assert.Equal(t, int64(4950), q.TotalCents)
	})

	t.Run("FiguresAlwaysSum", func(t *testing.T) {
		rates := []int64{1, 99, 333, 4500, 12999}
		for _, rate := range rates {
			for days := 1; days <= 30; days++ {
				end := date("2026-03-01").AddDate(0, 0, days-1)
				q, err := PriceRental(rate, date("2026-03-01"), end)
				assert.NoError(t, err)
				assert.Equal(t, days, q.Days)
				assert.Equal(t, q.TotalCents, q.SubtotalCents+q.TaxCents)
			}
		}
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, err := PriceRental(4500, date("2026-03-12"), date("2026-03-10"))
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("NonPositiveRate", func(t *testing.T) {
		_, err := PriceRental(0, date("2026-03-10"), date("2026-03-12"))
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}
