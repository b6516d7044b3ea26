package commands

import (
	"context"
	"errors"

	"courierdispatch/internal/pkg/errs"
)

// CreateOrdersCommandHandler stores a batch of orders in one transaction.
type CreateOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	retry      TxRetryPolicy
}

// NewCreateOrdersCommandHandler creates a handler for order imports.
func NewCreateOrdersCommandHandler(uowFactory OrderUoWFactory, retry TxRetryPolicy) CreateOrdersCommandHandler {
	return CreateOrdersCommandHandler{
		uowFactory: uowFactory,
		retry:      retry,
	}
}

// Handle stores every order of the batch.
// Returns *RejectedIDsError wrapping errs.ErrObjectAlreadyExists, listing the ids that
// are already stored, when any order of the batch exists; nothing is stored then.
func (h CreateOrdersCommandHandler) Handle(ctx context.Context, cmd CreateOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.retry.Run(ctx, func(ctx context.Context) error {
		return h.handle(ctx, cmd)
	})
}

func (h CreateOrdersCommandHandler) handle(ctx context.Context, cmd CreateOrdersCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.ExistingIDs(ctx, cmd.IDs())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return NewDuplicateIDsError("orders", existing)
	}

	for _, o := range cmd.Orders() {
		if err = orderRepo.Add(ctx, o); err != nil {
			if errors.Is(err, errs.ErrObjectAlreadyExists) {
				return NewDuplicateIDsError("orders", []int64{o.ID()})
			}
			return err
		}
	}

	return uow.Commit(ctx)
}
