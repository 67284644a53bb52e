package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
	"fleetrental/internal/utils"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	svc := NewBookingService(
		repository.NewBookingRepository(database),
		repository.NewRentalRepository(database),
		repository.NewVehicleRepository(database),
		nil,
		false,
	)
	return svc, mock, func() { database.Close() }
}

func futureDate(daysAhead int) string {
	return utils.FormatDate(utils.Today().AddDate(0, 0, daysAhead))
}

func vehicleRows(id int, rateCents int64, available bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "model", "type", "daily_rate_cents", "availability", "seats", "created_at", "updated_at"}).
		AddRow(id, "Corolla", "sedan", rateCents, available, 5, time.Now(), time.Now())
}

func TestBookingService_CreateBooking(t *testing.T) {
	req := func() *entities.BookingRequest {
		return &entities.BookingRequest{
			VehicleID: 1,
			Customer:  entities.CustomerData{Name: "Ana Diaz", Email: "ana@example.com", Phone: "+1555000111"},
			StartDate: futureDate(10),
			EndDate:   futureDate(12),
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).
			WillReturnRows(vehicleRows(1, 4500, true))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT id FROM customers WHERE email = \\$1 FOR UPDATE").
			WithArgs("ana@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO customers").
			WithArgs("Ana Diaz", "+1555000111", "ana@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, time.Now(), time.Now()))
		mock.ExpectCommit()

		resp, err := svc.CreateBooking(context.Background(), req())
		assert.NoError(t, err)
		assert.Equal(t, 42, resp.RentalID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 7, resp.CustomerID)
		assert.Equal(t, 3, resp.Pricing.Days)
		assert.Equal(t, 135.00, resp.Pricing.Subtotal)
		assert.Equal(t, 13.50, resp.Pricing.Tax)
		assert.Equal(t, 148.50, resp.Pricing.Total)
		assert.NotEmpty(t, resp.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithPaymentIntentConfirms", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).
			WillReturnRows(vehicleRows(1, 4500, true))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT id FROM customers WHERE email = \\$1 FOR UPDATE").
			WithArgs("ana@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("UPDATE customers SET name = \\$1, phone = \\$2").
			WithArgs("Ana Diaz", "+1555000111", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, time.Now(), time.Now()))
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("confirmed", 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		r := req()
		r.PaymentIntentID = "pi_123"
		resp, err := svc.CreateBooking(context.Background(), r)
		assert.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "completed", resp.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConflictRollsBack", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).
			WillReturnRows(vehicleRows(1, 4500, true))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), req())
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.True(t, apperrors.Retryable(apperrors.KindOf(err)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VehicleMissing", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "model", "type", "daily_rate_cents", "availability", "seats", "created_at", "updated_at"}))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), req())
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindVehicleUnavailable, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VehicleFlaggedUnavailable", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).
			WillReturnRows(vehicleRows(1, 4500, false))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), req())
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindVehicleUnavailable, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PastStartDateRejectedBeforeAnyQuery", func(t *testing.T) {
		svc, mock, closeDB := newBookingService(t)
		defer closeDB()

		r := req()
		r.StartDate = "2020-01-01"
		r.EndDate = "2020-01-03"
		_, err := svc.CreateBooking(context.Background(), r)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InvalidDateFormat", func(t *testing.T) {
		svc, _, closeDB := newBookingService(t)
		defer closeDB()

		r := req()
		r.StartDate = "03/10/2026"
		_, err := svc.CreateBooking(context.Background(), r)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("MissingEmail", func(t *testing.T) {
		svc, _, closeDB := newBookingService(t)
		defer closeDB()

		r := req()
		r.Customer.Email = ""
		_, err := svc.CreateBooking(context.Background(), r)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestBookingService_EmailFolding(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer database.Close()

	svc := NewBookingService(
		repository.NewBookingRepository(database),
		repository.NewRentalRepository(database),
		repository.NewVehicleRepository(database),
		nil,
		true,
	)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\$1 FOR UPDATE").
		WithArgs(1).
		WillReturnRows(vehicleRows(1, 4500, true))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id FROM customers WHERE email = \\$1 FOR UPDATE").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE customers SET name = \\$1, phone = \\$2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO rentals").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, time.Now(), time.Now()))
	mock.ExpectCommit()

	_, err = svc.CreateBooking(context.Background(), &entities.BookingRequest{
		VehicleID: 1,
		Customer:  entities.CustomerData{Name: "Ana Diaz", Email: "Ana@Example.com"},
		StartDate: futureDate(10),
		EndDate:   futureDate(12),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
