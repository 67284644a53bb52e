package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetrental/internal/db"
)

// PaymentRepository backs the payment reconciliation state machine. Updates
// are keyed on the provider's payment-intent reference so replayed events
// match zero rows the second time around.
type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(database *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: database}
}

func (r *PaymentRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	return r.DB.BeginTx(ctx, nil)
}

// GetRentalForUpdate locks the rental row so reconciliation events for the
// same rental serialize. Returns nil without error when the rental is gone.
func (r *PaymentRepository) GetRentalForUpdate(ctx context.Context, tx *sql.Tx, rentalID int) (*db.Rental, error) {
	var rt db.Rental
	query := `
		SELECT id, code, customer_id, vehicle_id, start_date, end_date, total_amount_cents, status, created_at, updated_at
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, rentalID).Scan(
		&rt.ID, &rt.Code, &rt.CustomerID, &rt.VehicleID, &rt.StartDate, &rt.EndDate,
		&rt.TotalAmountCents, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error locking rental %d: %w", rentalID, err)
	}
	return &rt, nil
}

// CompletePaymentByIntent marks the payment for the given provider reference
// completed. The status guard makes a replayed success event match zero
// rows instead of re-applying.
func (r *PaymentRepository) CompletePaymentByIntent(ctx context.Context, tx *sql.Tx, intentID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = 'completed', payment_date = NOW(), updated_at = NOW()
		WHERE stripe_payment_intent_id = $1 AND status <> 'completed'`,
		intentID)
	if err != nil {
		return 0, fmt.Errorf("error completing payment for intent %s: %w", intentID, err)
	}
	return res.RowsAffected()
}

func (r *PaymentRepository) SetPaymentStatusByIntent(ctx context.Context, tx *sql.Tx, intentID string, status db.PaymentStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE stripe_payment_intent_id = $2`,
		status, intentID)
	if err != nil {
		return 0, fmt.Errorf("error updating payment status for intent %s: %w", intentID, err)
	}
	return res.RowsAffected()
}

func (r *PaymentRepository) HasPaymentForIntent(ctx context.Context, tx *sql.Tx, intentID string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE stripe_payment_intent_id = $1`,
		intentID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking payment for intent %s: %w", intentID, err)
	}
	return count > 0, nil
}

// InsertPayment records a payment discovered through a provider event for a
// booking that ran without one.
func (r *PaymentRepository) InsertPayment(ctx context.Context, tx *sql.Tx, payment *db.Payment) error {
	query := `
		INSERT INTO payments (rental_id, amount_cents, payment_method, stripe_payment_intent_id, status, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		payment.RentalID, payment.AmountCents, payment.Method,
		payment.StripePaymentIntentID, payment.Status, payment.PaymentDate,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("error inserting payment for rental %d: %w", payment.RentalID, err)
	}
	return nil
}

func (r *PaymentRepository) SetRentalStatus(ctx context.Context, tx *sql.Tx, rentalID int, status db.RentalStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, rentalID)
	if err != nil {
		return fmt.Errorf("error setting rental %d status to %s: %w", rentalID, status, err)
	}
	return nil
}
