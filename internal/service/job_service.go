package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"fleetrental/internal/db"
	"fleetrental/internal/repository"
)

// Rentals a pending booking may stay unpaid before the sweep removes it.
const stalePendingAge = 24 * time.Hour

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// ActivateDueRentals moves confirmed rentals whose start date has arrived
// to active.
func (s *JobService) ActivateDueRentals(ctx context.Context) error {
	ids, err := s.Repo.GetConfirmedRentalIDsDue(ctx)
	if err != nil {
		return fmt.Errorf("cron job: get confirmed rentals due: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.Repo.UpdateRentalStatuses(ctx, ids, string(db.RentalStatusActive))
	if err != nil {
		return fmt.Errorf("cron job: activate rentals: %w", err)
	}
	log.Printf("cron job: activated %d rentals", rows)
	return nil
}

// CompleteFinishedRentals moves active rentals whose end date has passed
// to completed, releasing their vehicles' calendars.
func (s *JobService) CompleteFinishedRentals(ctx context.Context) error {
	ids, err := s.Repo.GetActiveRentalIDsPastEndDate(ctx)
	if err != nil {
		return fmt.Errorf("cron job: get active rentals past end date: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.Repo.UpdateRentalStatuses(ctx, ids, string(db.RentalStatusCompleted))
	if err != nil {
		return fmt.Errorf("cron job: complete rentals: %w", err)
	}
	log.Printf("cron job: completed %d rentals", rows)
	return nil
}

// DeleteStaleUnpaid removes pending rentals that never got a payment and
// have been sitting longer than stalePendingAge.
func (s *JobService) DeleteStaleUnpaid(ctx context.Context) error {
	rows, err := s.Repo.DeletePendingRentalsOlderThan(ctx, time.Now().UTC().Add(-stalePendingAge))
	if err != nil {
		return fmt.Errorf("cron job: delete stale pending rentals: %w", err)
	}
	if rows > 0 {
		log.Printf("cron job: deleted %d stale pending rentals", rows)
	}
	return nil
}
