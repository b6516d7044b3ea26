// Package outboxrepo stores domain events in the outbox_messages table until the
// relay publishes them.
package outboxrepo

import (
	"time"

	"courierdispatch/internal/core/ports"

	"github.com/google/uuid"
)

// MessageDTO is the row of the outbox_messages table.
type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType   string     `gorm:"type:text;not null"`
	AggregateID int64      `gorm:"not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null"`
	PublishedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName overrides GORM's default "message_dtos".
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromPort(m ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:          m.ID,
		EventType:   m.EventType,
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt.UTC(),
		PublishedAt: m.PublishedAt,
	}
}

func toPort(dto MessageDTO) ports.OutboxMessage {
	var publishedAt *time.Time
	if dto.PublishedAt != nil {
		t := dto.PublishedAt.UTC()
		publishedAt = &t
	}

	return ports.OutboxMessage{
		ID:          dto.ID,
		EventType:   dto.EventType,
		AggregateID: dto.AggregateID,
		Payload:     dto.Payload,
		CreatedAt:   dto.CreatedAt.UTC(),
		PublishedAt: publishedAt,
	}
}
