package service

import (
	"context"

	"fleetrental/internal/db"
	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
	"fleetrental/internal/utils"
)

type RentalService struct {
	Repo        *repository.RentalRepository
	BookingRepo *repository.BookingRepository
}

func NewRentalService(repo *repository.RentalRepository, bookingRepo *repository.BookingRepository) *RentalService {
	return &RentalService{Repo: repo, BookingRepo: bookingRepo}
}

func (s *RentalService) ListRentals(ctx context.Context, filter repository.RentalFilter) (*entities.RentalsList, error) {
	if filter.Status != "" && !db.ValidRentalStatus(filter.Status) {
		return nil, apperrors.Validation("unknown rental status " + filter.Status)
	}
	rentals, err := s.Repo.ListRentals(ctx, filter)
	if err != nil {
		return nil, storageError("list rentals", err)
	}
	return &entities.RentalsList{Rentals: rentals, Count: len(rentals)}, nil
}

func (s *RentalService) GetBooking(ctx context.Context, id int) (*entities.BookingDetail, error) {
	detail, err := s.Repo.GetBookingDetail(ctx, id)
	if err != nil {
		return nil, storageError("load booking", err)
	}
	if detail == nil {
		return nil, apperrors.NotFound("rental not found")
	}
	return detail, nil
}

// UpdateRental reschedules a rental and/or moves it to another vehicle.
// Fields left empty keep their stored value. The target vehicle row is
// locked, the conflict check excludes the rental itself, and the total is
// recomputed from the stored daily rate in the same transaction.
func (s *RentalService) UpdateRental(ctx context.Context, id int, req *entities.UpdateRentalRequest) (*entities.BookingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.BookingRepo.Begin(ctx)
	if err != nil {
		return nil, storageError("begin reschedule transaction", err)
	}
	defer tx.Rollback()

	current, err := s.Repo.GetRentalRow(ctx, id)
	if err != nil {
		return nil, storageError("load rental", err)
	}
	if current == nil {
		return nil, apperrors.NotFound("rental not found")
	}
	if current.Status.Terminal() {
		return nil, apperrors.Validation("cannot reschedule a " + string(current.Status) + " rental")
	}

	vehicleID := current.VehicleID
	if req.VehicleID > 0 {
		vehicleID = req.VehicleID
	}
	start, end := current.StartDate, current.EndDate
	if req.StartDate != "" {
		if start, err = utils.ParseDate(req.StartDate); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if req.EndDate != "" {
		if end, err = utils.ParseDate(req.EndDate); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if end.Before(start) {
		return nil, apperrors.Validation("end date must not be before start date")
	}

	vehicle, err := s.BookingRepo.GetVehicleForUpdate(ctx, tx, vehicleID)
	if err != nil {
		return nil, storageError("lock vehicle", err)
	}
	if vehicle == nil {
		return nil, apperrors.VehicleUnavailable("vehicle not found")
	}
	if !vehicle.Availability {
		return nil, apperrors.VehicleUnavailable("vehicle is not available for rental")
	}

	conflict, err := s.BookingRepo.HasConflict(ctx, tx, vehicleID, start, end, id)
	if err != nil {
		return nil, storageError("check booking conflicts", err)
	}
	if conflict {
		return nil, apperrors.Conflict("vehicle is already booked for the requested dates")
	}

	quote, err := PriceRental(vehicle.DailyRateCents, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.BookingRepo.UpdateRentalSchedule(ctx, tx, id, vehicleID, start, end, quote.TotalCents); err != nil {
		return nil, storageError("update rental", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageError("commit reschedule transaction", err)
	}

	return s.GetBooking(ctx, id)
}

func (s *RentalService) UpdateStatus(ctx context.Context, id int, status string) error {
	if !db.ValidRentalStatus(status) {
		return apperrors.Validation("unknown rental status " + status)
	}
	rows, err := s.Repo.UpdateRentalStatus(ctx, id, db.RentalStatus(status))
	if err != nil {
		return storageError("update rental status", err)
	}
	if rows == 0 {
		return apperrors.NotFound("rental not found")
	}
	return nil
}

// DeleteRental removes a rental record. Active rentals must be completed or
// cancelled first.
func (s *RentalService) DeleteRental(ctx context.Context, id int) error {
	current, err := s.Repo.GetRentalRow(ctx, id)
	if err != nil {
		return storageError("load rental", err)
	}
	if current == nil {
		return apperrors.NotFound("rental not found")
	}
	if current.Status == db.RentalStatusActive {
		return apperrors.Validation("cannot delete an active rental")
	}
	rows, err := s.Repo.DeleteRental(ctx, id)
	if err != nil {
		return storageError("delete rental", err)
	}
	if rows == 0 {
		return apperrors.NotFound("rental not found")
	}
	return nil
}

// UpcomingConflicts lists the non-terminal booked windows of one vehicle.
func (s *RentalService) UpcomingConflicts(ctx context.Context, vehicleID int) (*entities.ConflictsResponse, error) {
	windows, err := s.Repo.ListUpcomingConflicts(ctx, vehicleID)
	if err != nil {
		return nil, storageError("list conflicts", err)
	}
	return &entities.ConflictsResponse{VehicleID: vehicleID, Conflicts: windows}, nil
}
