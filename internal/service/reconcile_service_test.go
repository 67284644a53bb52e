package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrental/internal/repository"
)

func newReconcileService(t *testing.T) (*ReconcileService, sqlmock.Sqlmock, func()) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	svc := NewReconcileService(repository.NewPaymentRepository(database), nil, nil)
	return svc, mock, func() { database.Close() }
}

func rentalRows(id int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "customer_id", "vehicle_id", "start_date", "end_date", "total_amount_cents", "status", "created_at", "updated_at"}).
		AddRow(id, "abc-123", 7, 1, time.Now(), time.Now().Add(48*time.Hour), 14850, status, time.Now(), time.Now())
}

func expectRentalLock(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
		WithArgs(42).
		WillReturnRows(rows)
}

func TestReconcileService_Succeeded(t *testing.T) {
	t.Run("ConfirmsPendingRental", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		mock.ExpectBegin()
		expectRentalLock(mock, rentalRows(42, "pending"))
		mock.ExpectExec("UPDATE payments SET status = 'completed'").
			WithArgs("pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("confirmed", 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentSucceeded, IntentID: "pi_123", RentalID: 42, AmountCents: 14850,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReplayMatchesNothing", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		mock.ExpectBegin()
		expectRentalLock(mock, rentalRows(42, "confirmed"))
		mock.ExpectExec("UPDATE payments SET status = 'completed'").
			WithArgs("pi_123").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
			WithArgs("pi_123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectCommit()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentSucceeded, IntentID: "pi_123", RentalID: 42,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertsPaymentWhenBookingHadNone", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		mock.ExpectBegin()
		expectRentalLock(mock, rentalRows(42, "pending"))
		mock.ExpectExec("UPDATE payments SET status = 'completed'").
			WithArgs("pi_123").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
			WithArgs("pi_123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("confirmed", 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentSucceeded, IntentID: "pi_123", RentalID: 42, AmountCents: 14850,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReconcileService_Failed(t *testing.T) {
	svc, mock, closeDB := newReconcileService(t)
	defer closeDB()

	mock.ExpectBegin()
	expectRentalLock(mock, rentalRows(42, "confirmed"))
	mock.ExpectExec("UPDATE payments SET status = \\$1").
		WithArgs("failed", "pi_123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE rentals SET status = \\$1").
		WithArgs("pending", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Reconcile(context.Background(), &ProviderEvent{
		Type: EventPaymentFailed, IntentID: "pi_123", RentalID: 42,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileService_Canceled(t *testing.T) {
	t.Run("CancelsLiveRental", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		mock.ExpectBegin()
		expectRentalLock(mock, rentalRows(42, "pending"))
		mock.ExpectExec("UPDATE payments SET status = \\$1").
			WithArgs("canceled", "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE rentals SET status = \\$1").
			WithArgs("cancelled", 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentCanceled, IntentID: "pi_123", RentalID: 42,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LeavesCompletedRentalAlone", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		mock.ExpectBegin()
		expectRentalLock(mock, rentalRows(42, "completed"))
		mock.ExpectExec("UPDATE payments SET status = \\$1").
			WithArgs("canceled", "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentCanceled, IntentID: "pi_123", RentalID: 42,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReconcileService_Drops(t *testing.T) {
	t.Run("UnknownEventType", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: "charge.refunded", IntentID: "pi_123", RentalID: 42,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingRentalID", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentSucceeded, IntentID: "pi_123",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RentalGone", func(t *testing.T) {
		svc, mock, closeDB := newReconcileService(t)
		defer closeDB()

		empty := sqlmock.NewRows([]string{"id", "code", "customer_id", "vehicle_id", "start_date", "end_date", "total_amount_cents", "status", "created_at", "updated_at"})
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs(42).
			WillReturnRows(empty)
		mock.ExpectRollback()

		err := svc.Reconcile(context.Background(), &ProviderEvent{
			Type: EventPaymentSucceeded, IntentID: "pi_123", RentalID: 42,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
