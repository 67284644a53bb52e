package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetrental/internal/db"
	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
	"fleetrental/internal/utils"
)

type BookingService struct {
	Repo     *repository.BookingRepository
	Rentals  *repository.RentalRepository
	Vehicles *repository.VehicleRepository
	notifier *NotifyService

	// lowercaseEmails folds customer emails to lower case before matching,
	// so Foo@x.com and foo@x.com share one customer record.
	lowercaseEmails bool
}

func NewBookingService(repo *repository.BookingRepository, rentals *repository.RentalRepository,
	vehicles *repository.VehicleRepository, notifier *NotifyService, lowercaseEmails bool) *BookingService {
	return &BookingService{
		Repo:            repo,
		Rentals:         rentals,
		Vehicles:        vehicles,
		notifier:        notifier,
		lowercaseEmails: lowercaseEmails,
	}
}

// CreateBooking reserves a vehicle for the requested inclusive date span.
// The whole operation is one transaction: the vehicle row is locked first,
// the conflict check and the rental insert happen under that lock, and
// either everything commits or nothing does. The total is always computed
// from the stored daily rate, never taken from the request.
func (s *BookingService) CreateBooking(ctx context.Context, req *entities.BookingRequest) (*entities.BookingResponse, error) {
	start, end, err := s.validateBooking(req)
	if err != nil {
		return nil, err
	}
	email := s.normalizeEmail(req.Customer.Email)

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.Repo.Begin(ctx)
	if err != nil {
		return nil, storageError("begin booking transaction", err)
	}
	defer tx.Rollback()

	vehicle, err := s.Repo.GetVehicleForUpdate(ctx, tx, req.VehicleID)
	if err != nil {
		return nil, storageError("lock vehicle", err)
	}
	if vehicle == nil {
		return nil, apperrors.VehicleUnavailable("vehicle not found")
	}
	if !vehicle.Availability {
		return nil, apperrors.VehicleUnavailable("vehicle is not available for rental")
	}

	conflict, err := s.Repo.HasConflict(ctx, tx, vehicle.ID, start, end, 0)
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

	customerID, err := s.Repo.UpsertCustomer(ctx, tx, req.Customer.Name, req.Customer.Phone, email)
	if err != nil {
		return nil, storageError("upsert customer", err)
	}

	rental := &db.Rental{
		Code:             uuid.NewString(),
		CustomerID:       customerID,
		VehicleID:        vehicle.ID,
		StartDate:        start,
		EndDate:          end,
		TotalAmountCents: quote.TotalCents,
		Status:           db.RentalStatusPending,
	}
	if err := s.Repo.InsertRental(ctx, tx, rental); err != nil {
		return nil, storageError("insert rental", err)
	}

	paymentStatus := ""
	if req.PaymentIntentID != "" {
		method := req.PaymentMethod
		if method == "" {
			method = "card"
		}
		intentID := req.PaymentIntentID
		now := time.Now().UTC()
		payment := &db.Payment{
			RentalID:              rental.ID,
			AmountCents:           quote.TotalCents,
			Method:                method,
			StripePaymentIntentID: &intentID,
			Status:                db.PaymentStatusCompleted,
			PaymentDate:           &now,
		}
		if err := s.Repo.InsertPayment(ctx, tx, payment); err != nil {
			return nil, storageError("insert payment", err)
		}
		if err := s.Repo.SetRentalStatus(ctx, tx, rental.ID, db.RentalStatusConfirmed); err != nil {
			return nil, storageError("confirm rental", err)
		}
		rental.Status = db.RentalStatusConfirmed
		paymentStatus = string(db.PaymentStatusCompleted)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageError("commit booking transaction", err)
	}

	resp := &entities.BookingResponse{
		RentalID: rental.ID,
		Code:     rental.Code,
		Status:   string(rental.Status),
		Pricing: entities.Pricing{
			Days:      quote.Days,
			DailyRate: utils.CentsToAmount(quote.DailyRateCents),
			Subtotal:  utils.CentsToAmount(quote.SubtotalCents),
			Tax:       utils.CentsToAmount(quote.TaxCents),
			Total:     utils.CentsToAmount(quote.TotalCents),
		},
		CustomerID:    customerID,
		PaymentStatus: paymentStatus,
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(req.Customer, resp, vehicle.Model)
	}
	return resp, nil
}

// CheckAvailability reports whether the vehicle is free over the inclusive
// [start, end] span and lists the booked windows that overlap it.
func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID int, startDate, endDate string) (*entities.AvailabilityResponse, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.Vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, storageError("load vehicle", err)
	}
	if vehicle == nil {
		return nil, apperrors.NotFound("vehicle not found")
	}

	conflicts, err := s.Rentals.ListConflicts(ctx, vehicleID, start, end)
	if err != nil {
		return nil, storageError("list conflicts", err)
	}

	return &entities.AvailabilityResponse{
		Available: len(conflicts) == 0 && vehicle.Availability,
		Conflicts: conflicts,
		Vehicle:   toVehicleResponse(vehicle),
	}, nil
}

// SearchAvailableVehicles lists the fleet vehicles free over [start, end],
// optionally restricted to one vehicle type.
func (s *BookingService) SearchAvailableVehicles(ctx context.Context, vehicleType, startDate, endDate string) (*entities.VehicleSearchResponse, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.Vehicles.ListVehicles(ctx, vehicleType, true)
	if err != nil {
		return nil, storageError("list vehicles", err)
	}

	resp := &entities.VehicleSearchResponse{
		Vehicles:  []entities.VehicleResponse{},
		StartDate: utils.FormatDate(start),
		EndDate:   utils.FormatDate(end),
		Type:      vehicleType,
	}
	for i := range vehicles {
		conflicts, err := s.Rentals.ListConflicts(ctx, vehicles[i].ID, start, end)
		if err != nil {
			return nil, storageError("list conflicts", err)
		}
		if len(conflicts) == 0 {
			resp.Vehicles = append(resp.Vehicles, toVehicleResponse(&vehicles[i]))
		}
	}
	resp.Count = len(resp.Vehicles)
	return resp, nil
}

func (s *BookingService) validateBooking(req *entities.BookingRequest) (start, end time.Time, err error) {
	if req.VehicleID <= 0 {
		return start, end, apperrors.Validation("vehicle_id is required")
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return start, end, apperrors.Validation("customer name is required")
	}
	email := strings.TrimSpace(req.Customer.Email)
	if email == "" || !strings.Contains(email, "@") {
		return start, end, apperrors.Validation("a valid customer email is required")
	}
	start, end, err = parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return start, end, err
	}
	if start.Before(utils.Today()) {
		return start, end, apperrors.Validation("start date cannot be in the past")
	}
	return start, end, nil
}

func (s *BookingService) normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if s.lowercaseEmails {
		return strings.ToLower(email)
	}
	return email
}

func parseDateRange(startDate, endDate string) (start, end time.Time, err error) {
	if start, err = utils.ParseDate(startDate); err != nil {
		return start, end, apperrors.Validation(err.Error())
	}
	if end, err = utils.ParseDate(endDate); err != nil {
		return start, end, apperrors.Validation(err.Error())
	}
	if end.Before(start) {
		return start, end, apperrors.Validation("end date must not be before start date")
	}
	return start, end, nil
}
