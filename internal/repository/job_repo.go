package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// JobRepository serves the cron-driven rental lifecycle transitions.
type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedRentalIDsDue returns confirmed rentals whose start date has
// arrived; these move to 'active'.
func (r *JobRepository) GetConfirmedRentalIDsDue(ctx context.Context) ([]int, error) {
	return r.collectIDs(ctx,
		`SELECT id FROM rentals WHERE status = 'confirmed' AND start_date <= CURRENT_DATE`)
}

// GetActiveRentalIDsPastEndDate returns active rentals whose span has ended;
// these move to 'completed'.
func (r *JobRepository) GetActiveRentalIDsPastEndDate(ctx context.Context) ([]int, error) {
	return r.collectIDs(ctx,
		`SELECT id FROM rentals WHERE status = 'active' AND end_date < CURRENT_DATE`)
}

func (r *JobRepository) collectIDs(ctx context.Context, query string) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying rental ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning rental id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *JobRepository) UpdateRentalStatuses(ctx context.Context, ids []int, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating rental statuses: %w", err)
	}
	return res.RowsAffected()
}

// DeletePendingRentalsOlderThan sweeps unpaid pending rentals created before
// the cutoff so abandoned bookings stop blocking vehicle calendars.
func (r *JobRepository) DeletePendingRentalsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM rentals WHERE status = 'pending' AND created_at < $1
		 AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.rental_id = rentals.id)`,
		before)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending rentals: %w", err)
	}
	return res.RowsAffected()
}
