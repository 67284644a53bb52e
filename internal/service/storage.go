package service

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	apperrors "fleetrental/internal/errors"
)

// Every booking transaction runs under a deadline so a stuck lock cannot
// hold the vehicle row indefinitely.
const txTimeout = 5 * time.Second

// storageError maps a database failure to the client-facing taxonomy.
// Serialization failures and deadlocks (40001, 40P01) are retryable, as is
// a transaction that ran out its deadline; everything else is internal.
func storageError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Transaction(op+" timed out", err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return apperrors.Transaction(op+" aborted, please retry", err)
		}
	}
	return apperrors.Internal(op+" failed", err)
}
