package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fleetrental/internal/db"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(database *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: database}
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]db.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, phone, email, created_at, updated_at FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	defer rows.Close()

	var customers []db.Customer
	for rows.Next() {
		var c db.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer rewrites name and phone only. Email is the dedup key and
// stays immutable once stored.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, id int, name, phone string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE customers SET name = $1, phone = $2, updated_at = NOW() WHERE id = $3`,
		name, phone, id)
	if err != nil {
		return 0, fmt.Errorf("error updating customer %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting customer %d: %w", id, err)
	}
	return res.RowsAffected()
}
