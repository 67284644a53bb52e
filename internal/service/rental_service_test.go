package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
)

func newRentalService(t *testing.T) (*RentalService, sqlmock.Sqlmock, func()) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	svc := NewRentalService(
		repository.NewRentalRepository(database),
		repository.NewBookingRepository(database),
	)
	return svc, mock, func() { database.Close() }
}

func rentalRowCols() []string {
	return []string{"id", "code", "customer_id", "vehicle_id", "start_date", "end_date", "total_amount_cents", "status", "created_at", "updated_at"}
}

func TestRentalService_UpdateStatus(t *testing.T) {
	t.Run("UnknownStatusRejected", func(t *testing.T) {
		svc, mock, closeDB := newRentalService(t)
		defer closeDB()

		err := svc.UpdateStatus(context.Background(), 42, "parked")
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		svc, mock, closeDB := newRentalService(t)
		defer closeDB()

		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("cancelled", 42).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.UpdateStatus(context.Background(), 42, "cancelled")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, mock, closeDB := newRentalService(t)
		defer closeDB()

		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("cancelled", 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.UpdateStatus(context.Background(), 99, "cancelled")
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestRentalService_DeleteRental(t *testing.T) {
	t.Run("ActiveRentalRefused", func(t *testing.T) {
		svc, mock, closeDB := newRentalService(t)
		defer closeDB()

		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows(rentalRowCols()).
				AddRow(42, "abc-123", 7, 1, time.Now(), time.Now(), 14850, "active", time.Now(), time.Now()))

		err := svc.DeleteRental(context.Background(), 42)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		svc, mock, closeDB := newRentalService(t)
		defer closeDB()

		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows(rentalRowCols()).
				AddRow(42, "abc-123", 7, 1, time.Now(), time.Now(), 14850, "cancelled", time.Now(), time.Now()))
		mock.ExpectExec("DELETE FROM rentals WHERE id = \\$1").
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.DeleteRental(context.Background(), 42)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalService_UpdateRental_TerminalRefused(t *testing.T) {
	svc, mock, closeDB := newRentalService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(rentalRowCols()).
			AddRow(42, "abc-123", 7, 1, time.Now(), time.Now(), 14850, "completed", time.Now(), time.Now()))
	mock.ExpectRollback()

	_, err := svc.UpdateRental(context.Background(), 42, &entities.UpdateRentalRequest{EndDate: futureDate(20)})
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
