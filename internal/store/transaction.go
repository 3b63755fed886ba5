package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tandem-api/internal/platform/logger"
)

// SQLSTATE codes for transient transaction aborts.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
//
// A TxFn may run twice when the first attempt hits a transient conflict, so it
// must not have effects outside the transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// IsTransientConflict reports whether err is a serialization failure or a
// deadlock, either already mapped to ErrTransactionConflict or still carrying
// a driver SQLSTATE.
func IsTransientConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransactionConflict) {
		return true
	}

	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		switch coded.SQLState() {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return true
		}
	}
	return false
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
//
// When an attempt fails with a transient conflict (see IsTransientConflict)
// the whole transaction is retried exactly once. A second conflict is returned
// wrapped with ErrTransactionConflict.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	err := runOnce(ctx, log, db, fn)
	if !IsTransientConflict(err) {
		return err
	}

	log.Warn("transaction conflict, retrying once",
		slog.String("error", err.Error()))

	err = runOnce(ctx, log, db, fn)
	if IsTransientConflict(err) && !errors.Is(err, ErrTransactionConflict) {
		return fmt.Errorf("%w: %w", ErrTransactionConflict, err)
	}
	return err
}

func runOnce(ctx context.Context, log *slog.Logger, db *sql.DB, fn TxFn) error {
	// Begin a transaction
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Set up defer to handle panics and roll back the transaction if needed
	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug("transaction committed successfully")
	return nil
}
