package service

import (
	"time"

	apperrors "fleetrental/internal/errors"
)

// Rentals are priced per inclusive day: both endpoints count, so a same-day
// rental is one day. A fixed 10% tax applies on top of the subtotal.

const dayDuration = 24 * time.Hour

type Quote struct {
	Days           int
	DailyRateCents int64
	SubtotalCents  int64
	TaxCents       int64
	TotalCents     int64
}

// PriceRental computes the cost of renting at dailyRateCents over the
// inclusive [start, end] span. All money is integer cents; the total is
// rounded half away from zero at cent precision and the tax is derived as
// total minus subtotal so the three figures always sum.
func PriceRental(dailyRateCents int64, start, end time.Time) (*Quote, error) {
	if dailyRateCents <= 0 {
		return nil, apperrors.Validation("daily rate must be positive")
	}
	if end.Before(start) {
		return nil, apperrors.Validation("end date must not be before start date")
	}

	days := int(end.Sub(start)/dayDuration) + 1
	subtotal := int64(days) * dailyRateCents
	// total = round2(subtotal * 1.10), half away from zero; subtotal >= 0 here.
	total := (subtotal*11 + 5) / 10

	return &Quote{
		Days:           days,
		DailyRateCents: dailyRateCents,
		SubtotalCents:  subtotal,
		TaxCents:       total - subtotal,
		TotalCents:     total,
	}, nil
}
