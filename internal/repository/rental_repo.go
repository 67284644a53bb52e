package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fleetrental/internal/db"
	"fleetrental/internal/entities"
	"fleetrental/internal/utils"
)

type RentalRepository struct {
	DB *sql.DB
}

func NewRentalRepository(database *sql.DB) *RentalRepository {
	return &RentalRepository{DB: database}
}

type RentalFilter struct {
	Status     string
	CustomerID int
	VehicleID  int
}

func (r *RentalRepository) ListRentals(ctx context.Context, filter RentalFilter) ([]entities.RentalSummary, error) {
	query := `
		SELECT r.id, r.code, r.customer_id, c.name, c.email,
		       r.vehicle_id, v.model, v.type,
		       r.start_date, r.end_date, r.total_amount_cents, r.status, r.created_at
		FROM rentals r
		JOIN customers c ON r.customer_id = c.id
		JOIN vehicles v ON r.vehicle_id = v.id
		WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.Status != "" {
		query += " AND r.status = $" + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.CustomerID > 0 {
		query += " AND r.customer_id = $" + strconv.Itoa(idx)
		args = append(args, filter.CustomerID)
		idx++
	}
	if filter.VehicleID > 0 {
		query += " AND r.vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, filter.VehicleID)
		idx++
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing rentals: %w", err)
	}
	defer rows.Close()

	var rentals []entities.RentalSummary
	for rows.Next() {
		var (
			s                  entities.RentalSummary
			start, end, create time.Time
			totalCents         int64
		)
		if err := rows.Scan(
			&s.ID, &s.Code, &s.CustomerID, &s.CustomerName, &s.Email,
			&s.VehicleID, &s.VehicleModel, &s.VehicleType,
			&start, &end, &totalCents, &s.Status, &create,
		); err != nil {
			return nil, fmt.Errorf("error scanning rental row: %w", err)
		}
		s.StartDate = utils.FormatDate(start)
		s.EndDate = utils.FormatDate(end)
		s.Total = utils.CentsToAmount(totalCents)
		s.CreatedAt = create.UTC().Format(time.RFC3339)
		rentals = append(rentals, s)
	}
	return rentals, rows.Err()
}

// GetRentalRow loads the bare rental row without joins. Returns nil without
// error when the rental does not exist.
func (r *RentalRepository) GetRentalRow(ctx context.Context, id int) (*db.Rental, error) {
	var rt db.Rental
	query := `
		SELECT id, code, customer_id, vehicle_id, start_date, end_date, total_amount_cents, status, created_at, updated_at
		FROM rentals WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.Code, &rt.CustomerID, &rt.VehicleID, &rt.StartDate, &rt.EndDate,
		&rt.TotalAmountCents, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying rental %d: %w", id, err)
	}
	return &rt, nil
}

// GetBookingDetail returns the joined customer/vehicle/payment view of one
// rental. The payment block is nil when no payment row exists yet.
func (r *RentalRepository) GetBookingDetail(ctx context.Context, id int) (*entities.BookingDetail, error) {
	query := `
		SELECT r.id, r.code,
		       c.name, c.email, c.phone,
		       v.id, v.model, v.type, v.daily_rate_cents, v.availability, v.seats,
		       r.start_date, r.end_date, r.total_amount_cents, r.status, r.created_at,
		       p.amount_cents, p.payment_method, p.status, p.stripe_payment_intent_id, p.payment_date
		FROM rentals r
		JOIN customers c ON r.customer_id = c.id
		JOIN vehicles v ON r.vehicle_id = v.id
		LEFT JOIN payments p ON r.id = p.rental_id
		WHERE r.id = $1`

	var (
		d                  entities.BookingDetail
		dailyRateCents     int64
		totalCents         int64
		start, end, create time.Time
		payAmount          *int64
		payMethod          *string
		payStatus          *string
		payIntent          *string
		payDate            *time.Time
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&d.RentalID, &d.Code,
		&d.Customer.Name, &d.Customer.Email, &d.Customer.Phone,
		&d.Vehicle.ID, &d.Vehicle.Model, &d.Vehicle.Type, &dailyRateCents, &d.Vehicle.Availability, &d.Vehicle.Seats,
		&start, &end, &totalCents, &d.Status, &create,
		&payAmount, &payMethod, &payStatus, &payIntent, &payDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}

	d.Vehicle.DailyRate = utils.CentsToAmount(dailyRateCents)
	d.StartDate = utils.FormatDate(start)
	d.EndDate = utils.FormatDate(end)
	d.Total = utils.CentsToAmount(totalCents)
	d.CreatedAt = create.UTC().Format(time.RFC3339)

	if payStatus != nil {
		info := &entities.PaymentInfo{Status: *payStatus}
		if payAmount != nil {
			info.Amount = utils.CentsToAmount(*payAmount)
		}
		if payMethod != nil {
			info.Method = *payMethod
		}
		if payIntent != nil {
			info.PaymentIntentID = *payIntent
		}
		if payDate != nil {
			info.PaymentDate = utils.FormatDate(*payDate)
		}
		d.Payment = info
	}
	return &d, nil
}

func (r *RentalRepository) UpdateRentalStatus(ctx context.Context, id int, status db.RentalStatus) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return 0, fmt.Errorf("error updating rental %d status: %w", id, err)
	}
	return res.RowsAffected()
}

func (r *RentalRepository) DeleteRental(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting rental %d: %w", id, err)
	}
	return res.RowsAffected()
}

// ListConflicts returns the non-terminal rentals for a vehicle overlapping
// [start, end], for the availability read API. The write path uses
// BookingRepository.HasConflict under the vehicle lock instead.
func (r *RentalRepository) ListConflicts(ctx context.Context, vehicleID int, start, end time.Time) ([]entities.RentalWindow, error) {
	query := `
		SELECT id, start_date, end_date, status
		FROM rentals
		WHERE vehicle_id = $1
		  AND status NOT IN ('cancelled', 'completed')
		  AND NOT (end_date < $2 OR start_date > $3)
		ORDER BY start_date`
	return r.scanWindows(ctx, query, vehicleID, start, end)
}

// ListUpcomingConflicts returns all future blocking spans for a vehicle.
func (r *RentalRepository) ListUpcomingConflicts(ctx context.Context, vehicleID int) ([]entities.RentalWindow, error) {
	query := `
		SELECT id, start_date, end_date, status
		FROM rentals
		WHERE vehicle_id = $1
		  AND status NOT IN ('cancelled', 'completed')
		  AND end_date >= CURRENT_DATE
		ORDER BY start_date`
	return r.scanWindows(ctx, query, vehicleID)
}

func (r *RentalRepository) scanWindows(ctx context.Context, query string, args ...interface{}) ([]entities.RentalWindow, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rental windows: %w", err)
	}
	defer rows.Close()

	var windows []entities.RentalWindow
	for rows.Next() {
		var (
			w          entities.RentalWindow
			start, end time.Time
		)
		if err := rows.Scan(&w.RentalID, &start, &end, &w.Status); err != nil {
			return nil, fmt.Errorf("error scanning rental window: %w", err)
		}
		w.StartDate = utils.FormatDate(start)
		w.EndDate = utils.FormatDate(end)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
