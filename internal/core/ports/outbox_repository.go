package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxMessage is a domain event stored in the same transaction as the change
// that raised it, waiting to be published.
type OutboxMessage struct {
	ID          uuid.UUID
	EventType   string
	AggregateID int64
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// OutboxRepository reads and maintains stored outbox messages. Messages are written
// by the unit of work on commit.
type OutboxRepository interface {
	// LockUnpublished returns up to limit unpublished messages, oldest first, locking
	// them until the transaction ends. Rows locked by another relay are skipped.
	LockUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished sets the publish time of the given messages.
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error

	// DeletePublishedBefore removes messages published before the given moment and
	// returns how many were removed.
	DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error)
}
