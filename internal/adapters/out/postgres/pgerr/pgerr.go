// Package pgerr classifies PostgreSQL errors returned through GORM.
package pgerr

import (
	"errors"
	"fmt"

	"courierdispatch/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the adapters react to.
const (
	UniqueViolation      = "23505"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
)

// Code returns the SQLSTATE of err, or an empty string when err is not a PostgreSQL error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return Code(err) == UniqueViolation
}

// IsTransactionConflict reports whether the database aborted the transaction so that
// it may be retried as a whole.
func IsTransactionConflict(err error) bool {
	code := Code(err)
	return code == SerializationFailure || code == DeadlockDetected
}

// Classify wraps serialization failures and deadlocks in ports.ErrTransactionConflict
// and returns every other error unchanged.
func Classify(err error) error {
	if err == nil || !IsTransactionConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrTransactionConflict, err)
}
