// Package postgres provides the GORM-based Unit of Work. A unit of work wraps one
// database transaction, hands out repositories bound to it and, on Commit, writes the
// domain events of every aggregate it tracked to the outbox in the same transaction.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	c, err := uow.CourierRepository().GetForUpdate(ctx, courierID)
//	if err != nil {
//	    return err
//	}
//	// change c and store it through the repositories
//
//	return uow.Commit(ctx)
//
// Serialization failures and deadlocks surface as ports.ErrTransactionConflict so
// callers can retry the whole unit of work. Each UnitOfWork instance is meant for a
// single goroutine.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"courierdispatch/internal/adapters/out/postgres/assignmentrepo"
	"courierdispatch/internal/adapters/out/postgres/courierrepo"
	"courierdispatch/internal/adapters/out/postgres/orderrepo"
	"courierdispatch/internal/adapters/out/postgres/outboxrepo"
	"courierdispatch/internal/adapters/out/postgres/pgerr"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with no transaction and nothing tracked.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:      f.db,
		tracked: make([]kernel.EventSource, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates touched in it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []kernel.EventSource
}

// Begin starts the transaction. Calling it again while a transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Classify(tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit writes the pending domain events to the outbox and commits. Events of tracked
// aggregates are cleared only when the commit succeeds.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	messages, err := uow.pendingMessages()
	if err != nil {
		return err
	}
	if err = outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, messages...); err != nil {
		return err
	}

	err = uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return pgerr.Classify(err)
	}

	for _, aggregate := range uow.tracked {
		aggregate.ClearDomainEvents()
	}
	uow.tracked = uow.tracked[:0]
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = uow.tracked[:0]
	return err
}

func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return assignmentrepo.NewGormAssignmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate whose events are stored on Commit. Tracking
// the same aggregate twice has no effect.
func (uow *GormUnitOfWork) TrackAggregate(aggregate kernel.EventSource) {
	if slices.Contains(uow.tracked, aggregate) {
		return
	}
	uow.tracked = append(uow.tracked, aggregate)
}

// conn returns the open transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pendingMessages() ([]ports.OutboxMessage, error) {
	now := time.Now().UTC()
	var messages []ports.OutboxMessage

	for _, aggregate := range uow.tracked {
		for _, event := range aggregate.DomainEvents() {
			message, err := newOutboxMessage(event, now)
			if err != nil {
				return nil, err
			}
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func newOutboxMessage(event kernel.DomainEvent, createdAt time.Time) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.OutboxMessage{}, fmt.Errorf("failed to encode %s event: %w", event.EventName(), err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:          id,
		EventType:   event.EventName(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		CreatedAt:   createdAt,
	}, nil
}
