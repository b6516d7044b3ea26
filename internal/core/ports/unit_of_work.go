package ports

import (
	"context"
	"errors"
)

// ErrTransactionConflict is returned when the database aborts a transaction because
// of a serialization failure or a deadlock. The whole transaction may be retried.
var ErrTransactionConflict = errors.New("transaction conflict")

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Aggregates touched through
// its repositories are tracked, and their domain events are written to the outbox
// in the same transaction on Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit stores pending outbox messages and commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	CourierRepository() CourierRepository
	OrderRepository() OrderRepository
	AssignmentRepository() AssignmentRepository
	OutboxRepository() OutboxRepository
}
