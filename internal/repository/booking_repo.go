package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrental/internal/db"
)

// BookingRepository holds the transaction-scoped data access used by the
// booking coordinator. Every method runs on the caller's *sql.Tx so the
// conflict check, customer upsert and rental insert commit or roll back as
// one unit.
type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	return r.DB.BeginTx(ctx, nil)
}

// GetVehicleForUpdate loads a vehicle row and locks it for the duration of
// the transaction. Concurrent bookings for the same vehicle queue on this
// lock, so the conflict check below cannot race with another insert.
// Returns nil without error when the vehicle does not exist.
func (r *BookingRepository) GetVehicleForUpdate(ctx context.Context, tx *sql.Tx, vehicleID int) (*db.Vehicle, error) {
	var v db.Vehicle
	query := `
		SELECT id, model, type, daily_rate_cents, availability, seats, created_at, updated_at
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, vehicleID).Scan(
		&v.ID, &v.Model, &v.Type, &v.DailyRateCents, &v.Availability, &v.Seats, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error locking vehicle %d: %w", vehicleID, err)
	}
	return &v, nil
}

// HasConflict reports whether any non-terminal rental for the vehicle
// overlaps the inclusive [start, end] span. Touching endpoints count as a
// conflict. excludeRentalID omits that rental's own row when rescheduling;
// pass 0 to check all.
func (r *BookingRepository) HasConflict(ctx context.Context, tx *sql.Tx, vehicleID int, start, end time.Time, excludeRentalID int) (bool, error) {
	query := `
		SELECT COUNT(*) FROM rentals
		WHERE vehicle_id = $1
		  AND status NOT IN ('cancelled', 'completed')
		  AND NOT (end_date < $2 OR start_date > $3)`
	args := []interface{}{vehicleID, start, end}
	if excludeRentalID > 0 {
		query += " AND id <> $4"
		args = append(args, excludeRentalID)
	}

	var count int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking rental conflicts for vehicle %d: %w", vehicleID, err)
	}
	return count > 0, nil
}

// UpsertCustomer deduplicates customers by email: an existing row gets its
// name and phone refreshed, a missing one is inserted. The email itself is
// never rewritten, it is the dedup key. Runs on the caller's transaction so
// customer and rental creation commit together.
func (r *BookingRepository) UpsertCustomer(ctx context.Context, tx *sql.Tx, name, phone, email string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM customers WHERE email = $1 FOR UPDATE`, email).Scan(&id)
	if err == nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE customers SET name = $1, phone = $2, updated_at = NOW() WHERE id = $3`,
			name, phone, id)
		if err != nil {
			return 0, fmt.Errorf("error updating customer %d: %w", id, err)
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error looking up customer by email: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO customers (name, phone, email, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING id`,
		name, phone, email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting customer: %w", err)
	}
	return id, nil
}

func (r *BookingRepository) InsertRental(ctx context.Context, tx *sql.Tx, rental *db.Rental) error {
	query := `
		INSERT INTO rentals (code, customer_id, vehicle_id, start_date, end_date, total_amount_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := tx.QueryRowContext(ctx, query,
		rental.Code, rental.CustomerID, rental.VehicleID,
		rental.StartDate, rental.EndDate, rental.TotalAmountCents, rental.Status,
	).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting rental: %w", err)
	}
	return nil
}

func (r *BookingRepository) InsertPayment(ctx context.Context, tx *sql.Tx, payment *db.Payment) error {
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

func (r *BookingRepository) SetRentalStatus(ctx context.Context, tx *sql.Tx, rentalID int, status db.RentalStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, rentalID)
	if err != nil {
		return fmt.Errorf("error setting rental %d status to %s: %w", rentalID, status, err)
	}
	return nil
}

// UpdateRentalSchedule rewrites a rental's vehicle, span and total as part
// of a reschedule. Must run after HasConflict on the same transaction.
func (r *BookingRepository) UpdateRentalSchedule(ctx context.Context, tx *sql.Tx, rentalID, vehicleID int, start, end time.Time, totalCents int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE rentals
		SET vehicle_id = $1, start_date = $2, end_date = $3, total_amount_cents = $4, updated_at = NOW()
		WHERE id = $5`,
		vehicleID, start, end, totalCents, rentalID)
	if err != nil {
		return fmt.Errorf("error rescheduling rental %d: %w", rentalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
