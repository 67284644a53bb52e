package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetrental/internal/db"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

func (r *VehicleRepository) ListVehicles(ctx context.Context, vehicleType string, onlyAvailable bool) ([]db.Vehicle, error) {
	query := `SELECT id, model, type, daily_rate_cents, availability, seats, created_at, updated_at FROM vehicles WHERE 1=1`
	args := []interface{}{}
	if onlyAvailable {
		query += " AND availability = true"
	}
	if vehicleType != "" {
		query += fmt.Sprintf(" AND type = $%d", len(args)+1)
		args = append(args, vehicleType)
	}
	query += " ORDER BY type, model"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Model, &v.Type, &v.DailyRateCents, &v.Availability, &v.Seats, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetVehicle returns nil without error when the vehicle does not exist.
func (r *VehicleRepository) GetVehicle(ctx context.Context, id int) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, model, type, daily_rate_cents, availability, seats, created_at, updated_at FROM vehicles WHERE id = $1`,
		id).Scan(&v.ID, &v.Model, &v.Type, &v.DailyRateCents, &v.Availability, &v.Seats, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vehicles (model, type, daily_rate_cents, availability, seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		v.Model, v.Type, v.DailyRateCents, v.Availability, v.Seats,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, v *db.Vehicle) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET model = $1, type = $2, daily_rate_cents = $3, availability = $4, seats = $5, updated_at = NOW()
		WHERE id = $6`,
		v.Model, v.Type, v.DailyRateCents, v.Availability, v.Seats, v.ID)
	if err != nil {
		return 0, fmt.Errorf("error updating vehicle %d: %w", v.ID, err)
	}
	return res.RowsAffected()
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting vehicle %d: %w", id, err)
	}
	return res.RowsAffected()
}
