package db

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusConfirmed RentalStatus = "confirmed"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// ValidRentalStatus reports whether s is one of the five rental states.
func ValidRentalStatus(s string) bool {
	switch RentalStatus(s) {
	case RentalStatusPending, RentalStatusConfirmed, RentalStatusActive,
		RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether a rental in status s has left the vehicle's
// calendar. Terminal rentals never count as conflicts.
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusCancelled || s == RentalStatusCompleted
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Vehicle struct {
	ID             int
	Model          string
	Type           string
	DailyRateCents int64
	Availability   bool
	Seats          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Customer struct {
	ID        int
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rental reserves one vehicle for an inclusive [start_date, end_date] span.
// For a given vehicle the spans of non-terminal rentals never overlap; the
// booking transaction enforces it.
type Rental struct {
	ID               int
	Code             string
	CustomerID       int
	VehicleID        int
	StartDate        time.Time
	EndDate          time.Time
	TotalAmountCents int64
	Status           RentalStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Payment struct {
	ID                    int
	RentalID              int
	AmountCents           int64
	Method                string
	StripePaymentIntentID *string
	Status                PaymentStatus
	PaymentDate           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
