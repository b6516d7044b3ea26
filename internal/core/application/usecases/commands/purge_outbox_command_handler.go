package commands

import (
	"context"
	"time"
)

// PurgeOutboxCommandHandler deletes published outbox messages past retention.
type PurgeOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
}

// NewPurgeOutboxCommandHandler creates a purge handler.
func NewPurgeOutboxCommandHandler(uowFactory OutboxUoWFactory) PurgeOutboxCommandHandler {
	return PurgeOutboxCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of deleted messages.
func (h PurgeOutboxCommandHandler) Handle(ctx context.Context, cmd PurgeOutboxCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.OutboxRepository().DeletePublishedBefore(ctx, time.Now().UTC().Add(-cmd.Retention()))
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return deleted, nil
}
