package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"fleetrental/internal/db"
	"fleetrental/internal/repository"
)

// Provider event types the reconciler acts on. Anything else is logged and
// acknowledged so the provider stops redelivering it.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// ProviderEvent is a payment event already extracted from the provider's
// webhook envelope, with the signature verified by the caller.
type ProviderEvent struct {
	Type        string
	IntentID    string
	RentalID    int
	AmountCents int64
}

type ReconcileService struct {
	Repo     *repository.PaymentRepository
	Rentals  *repository.RentalRepository
	notifier *NotifyService
}

func NewReconcileService(repo *repository.PaymentRepository, rentals *repository.RentalRepository, notifier *NotifyService) *ReconcileService {
	return &ReconcileService{Repo: repo, Rentals: rentals, notifier: notifier}
}

// Reconcile applies one provider event to the rental and payment records.
// Replays are harmless: the payment update is keyed on the provider's intent
// id and matches nothing once the row already carries the target status.
// A returned error means the provider should redeliver the event.
func (s *ReconcileService) Reconcile(ctx context.Context, ev *ProviderEvent) error {
	switch ev.Type {
	case EventPaymentSucceeded, EventPaymentFailed, EventPaymentCanceled:
	default:
		log.Printf("reconcile: ignoring unhandled event type %q", ev.Type)
		return nil
	}
	if ev.RentalID <= 0 {
		log.Printf("reconcile: dropping %s event %q with no rental id", ev.Type, ev.IntentID)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.Repo.Begin(ctx)
	if err != nil {
		return storageError("begin reconcile transaction", err)
	}
	defer tx.Rollback()

	rental, err := s.Repo.GetRentalForUpdate(ctx, tx, ev.RentalID)
	if err != nil {
		return storageError("lock rental", err)
	}
	if rental == nil {
		log.Printf("reconcile: dropping %s event %q, rental %d not found", ev.Type, ev.IntentID, ev.RentalID)
		return nil
	}

	switch ev.Type {
	case EventPaymentSucceeded:
		err = s.applySucceeded(ctx, tx, rental, ev)
	case EventPaymentFailed:
		err = s.applyFailed(ctx, tx, rental, ev)
	case EventPaymentCanceled:
		err = s.applyCanceled(ctx, tx, rental, ev)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit reconcile transaction", err)
	}

	if ev.Type == EventPaymentSucceeded && rental.Status == db.RentalStatusPending {
		s.notifyConfirmed(ctx, rental.ID)
	}
	return nil
}

func (s *ReconcileService) notifyConfirmed(ctx context.Context, rentalID int) {
	if s.notifier == nil || s.Rentals == nil {
		return
	}
	detail, err := s.Rentals.GetBookingDetail(ctx, rentalID)
	if err != nil || detail == nil {
		log.Printf("reconcile: could not load rental %d for confirmation notice: %v", rentalID, err)
		return
	}
	s.notifier.PaymentConfirmed(detail.Customer.Email, detail.Customer.Name, detail.Code)
}

func (s *ReconcileService) applySucceeded(ctx context.Context, tx *sql.Tx, rental *db.Rental, ev *ProviderEvent) error {
	rows, err := s.Repo.CompletePaymentByIntent(ctx, tx, ev.IntentID)
	if err != nil {
		return storageError("complete payment", err)
	}
	if rows == 0 {
		// Either a replay or a booking that was created without a payment
		// row. Insert one in the latter case.
		exists, err := s.Repo.HasPaymentForIntent(ctx, tx, ev.IntentID)
		if err != nil {
			return storageError("look up payment", err)
		}
		if exists {
			log.Printf("reconcile: payment %q already completed, replay ignored", ev.IntentID)
		} else {
			amount := ev.AmountCents
			if amount == 0 {
				amount = rental.TotalAmountCents
			}
			intentID := ev.IntentID
			now := time.Now().UTC()
			payment := &db.Payment{
				RentalID:              rental.ID,
				AmountCents:           amount,
				Method:                "card",
				StripePaymentIntentID: &intentID,
				Status:                db.PaymentStatusCompleted,
				PaymentDate:           &now,
			}
			if err := s.Repo.InsertPayment(ctx, tx, payment); err != nil {
				return storageError("insert payment", err)
			}
		}
	}

	if rental.Status == db.RentalStatusPending {
		if err := s.Repo.SetRentalStatus(ctx, tx, rental.ID, db.RentalStatusConfirmed); err != nil {
			return storageError("confirm rental", err)
		}
	}
	return nil
}

func (s *ReconcileService) applyFailed(ctx context.Context, tx *sql.Tx, rental *db.Rental, ev *ProviderEvent) error {
	if _, err := s.Repo.SetPaymentStatusByIntent(ctx, tx, ev.IntentID, db.PaymentStatusFailed); err != nil {
		return storageError("mark payment failed", err)
	}
	// The rental goes back to pending so the customer can retry the charge;
	// the booked window stays held.
	if rental.Status == db.RentalStatusConfirmed {
		if err := s.Repo.SetRentalStatus(ctx, tx, rental.ID, db.RentalStatusPending); err != nil {
			return storageError("revert rental to pending", err)
		}
	}
	return nil
}

func (s *ReconcileService) applyCanceled(ctx context.Context, tx *sql.Tx, rental *db.Rental, ev *ProviderEvent) error {
	if _, err := s.Repo.SetPaymentStatusByIntent(ctx, tx, ev.IntentID, db.PaymentStatusCanceled); err != nil {
		return storageError("mark payment canceled", err)
	}
	if !rental.Status.Terminal() {
		if err := s.Repo.SetRentalStatus(ctx, tx, rental.ID, db.RentalStatusCancelled); err != nil {
			return storageError("cancel rental", err)
		}
	}
	return nil
}
