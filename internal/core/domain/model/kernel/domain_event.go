package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a business operation.
// The unit of work stores recorded events in the outbox within the same
// transaction as the state change that produced them.
type DomainEvent interface {
	// EventName is the stable name used as the outbox message type.
	EventName() string

	// AggregateID identifies the aggregate that recorded the event.
	AggregateID() int64

	// OccurredAt is the business time of the event.
	OccurredAt() time.Time
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
